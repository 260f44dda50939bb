package service

import (
	"fmt"
	"strings"

	"ritcompass/internal/llm"
)

const outputSchema = `[{
    "type": "timeline" | "message",
    "timeline": [
        {
        "title": "<Step Title>",
        "description": "<Step Description>",
        "responsible_authority": "<Who handles this>",
        "expected_time": "<Time estimate (if available)>",
        "related_links": "<related links>"
        }
    ],
    "message": "<some message>", // only when type is "message"
    "remarks": "<Any additional remarks>"
}]`

const blockSeparator = "\n---\n"

// PromptBuilder composes the extraction instruction.
type PromptBuilder struct {
	assistantName string
	institution   string
}

func NewPromptBuilder(assistantName, institution string) *PromptBuilder {
	return &PromptBuilder{assistantName: assistantName, institution: institution}
}

// Build returns the extraction messages: the instruction as the system
// message followed by the raw query as the human message.
func (b *PromptBuilder) Build(query string, docs []string) []llm.Message {
	return []llm.Message{
		llm.SystemMessage(b.Instruction(docs)),
		llm.HumanMessage(query),
	}
}

// Instruction renders the system instruction. docs are the formatted knowledge
// documents of the matched categories, in category order.
func (b *PromptBuilder) Instruction(docs []string) string {
	var sb strings.Builder
	sb.WriteString(b.preamble())

	if len(docs) == 0 {
		sb.WriteString("\nNo process data matched this query. Answer the user conversationally, ")
		sb.WriteString(`but still return a JSON array with exactly one entry of type "message".`)
		return sb.String()
	}

	blocks := make([]string, 0, len(docs))
	for _, doc := range docs {
		blocks = append(blocks, "```md\n"+doc+"\n```")
	}

	sb.WriteString("\nThe following is a data point about a specific process(s) (each process is in its own block):\n")
	sb.WriteString(strings.Join(blocks, blockSeparator))
	sb.WriteString("\n\nExtract the key steps involved in each process and convert them into a **timeline** entry (json). ")
	sb.WriteString(`If a process block has no clear steps, return an entry of type "message" for it instead of leaving it out. `)
	sb.WriteString("Add every entry to one array and return it.")
	return sb.String()
}

func (b *PromptBuilder) preamble() string {
	return fmt.Sprintf(`IMPORTANT: Only give back json. No markdown, no code fences, no text before or after the json.
You are an intelligent assistant called %[1]s of %[2]s. You provide clear, easy-to-follow steps that help students navigate college life at %[2]s.
You act as a query engine that converts the given data into a structured json response. You sit at the backend; the frontend passes a user prompt to which context is added.
If an unrelated query is asked, return a message (with type = "message") in the data returned.
You must return an array of timeline or message entries in json, exactly in this format:
%[3]s
`, b.assistantName, b.institution, outputSchema)
}
