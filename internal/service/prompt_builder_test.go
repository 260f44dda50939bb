package service

import (
	"strings"
	"testing"

	"ritcompass/internal/llm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_MessagesCarryQuery(t *testing.T) {
	b := NewPromptBuilder("RITCompass", "RIT")

	msgs := b.Build("How do I apply?", []string{"# Doc"})
	require.Len(t, msgs, 2)
	assert.Equal(t, llm.RoleSystem, msgs[0].Role)
	assert.Equal(t, llm.HumanMessage("How do I apply?"), msgs[1])
	assert.NotContains(t, msgs[0].Content, "How do I apply?")
}

func TestInstruction_Preamble(t *testing.T) {
	instr := NewPromptBuilder("RITCompass", "RIT").Instruction([]string{"# Doc"})

	assert.True(t, strings.HasPrefix(instr, "IMPORTANT: Only give back json."))
	assert.Contains(t, instr, "called RITCompass of RIT")
	assert.Contains(t, instr, `"type": "timeline" | "message"`)
	assert.Contains(t, instr, `"responsible_authority"`)
	assert.Contains(t, instr, `no clear steps, return an entry of type "message"`)
}

func TestInstruction_WrapsAndSeparatesBlocks(t *testing.T) {
	instr := NewPromptBuilder("A", "B").Instruction([]string{"# First", "# Second"})

	assert.Contains(t, instr, "```md\n# First\n```\n---\n```md\n# Second\n```")
	assert.Less(t, strings.Index(instr, "# First"), strings.Index(instr, "# Second"))
}

func TestInstruction_NoDocs(t *testing.T) {
	instr := NewPromptBuilder("A", "B").Instruction(nil)

	assert.Contains(t, instr, "IMPORTANT: Only give back json.")
	assert.Contains(t, instr, `exactly one entry of type "message"`)
	assert.NotContains(t, instr, "```md")
}

func TestInstruction_Deterministic(t *testing.T) {
	b := NewPromptBuilder("A", "B")
	docs := []string{"# One", "# Two"}
	assert.Equal(t, b.Instruction(docs), b.Instruction(docs))
}
