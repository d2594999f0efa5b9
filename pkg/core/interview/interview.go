// Package interview runs one turn of the AI intake interview.
package interview

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"modelrisk_intake/pkg/core/agent"
	"modelrisk_intake/pkg/core/llm"
	"modelrisk_intake/pkg/core/prompt"
	"modelrisk_intake/pkg/core/sanitize"
	"modelrisk_intake/pkg/core/schema"
	"modelrisk_intake/pkg/core/utils"
	"modelrisk_intake/pkg/models"
)

// MaxHistory bounds the chat turns sent with each request.
const MaxHistory = 20

const openingMessage = "Start the intake interview."

// Turn is the state the client sends for one interview step.
type Turn struct {
	Messages       []llm.Message           `json:"messages"`
	IntakeData     models.IntakeData       `json:"intakeData"`
	CurrentSection string                  `json:"currentSection"`
	Documents      []models.ParsedDocument `json:"documents,omitempty"`
}

// Reply is the assistant's answer plus the form changes it implies.
type Reply struct {
	Reply        string               `json:"reply"`
	FieldUpdates []models.FieldUpdate `json:"fieldUpdates"`
	NextSection  string               `json:"nextSection"`
	Complete     bool                 `json:"complete"`
	IntakeData   models.IntakeData    `json:"intakeData"`
}

type Interviewer struct {
	exec    agent.Executor
	prompts *prompt.Registry
	catalog *schema.Catalog
	logger  *zap.Logger
}

func New(exec agent.Executor, prompts *prompt.Registry, logger *zap.Logger) *Interviewer {
	if prompts == nil {
		prompts = prompt.Get()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Interviewer{exec: exec, prompts: prompts, catalog: schema.Default(), logger: logger}
}

// FallbackReply is used when the model's answer cannot be read.
func FallbackReply(section schema.Section) string {
	return fmt.Sprintf("Sorry, I didn't quite get that. Could you tell me more about %s?", strings.ToLower(section.Title))
}

type promptDoc struct {
	Filename string
	Summary  string
}

// Respond runs one interview turn. Unreadable model output degrades to the
// fallback reply with no updates.
func (i *Interviewer) Respond(ctx context.Context, turn Turn) (*Reply, error) {
	if err := i.exec.Ready(agent.Interview); err != nil {
		return nil, err
	}

	current, ok := schema.SectionByID(turn.CurrentSection)
	if !ok {
		current = schema.Sections[0]
	}

	pt, err := i.prompts.GetPrompt(prompt.IDInterview)
	if err != nil {
		return nil, err
	}
	sectionContext, err := i.renderContext(pt, current, turn)
	if err != nil {
		return nil, err
	}

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: pt.SystemPrompt},
		{Role: llm.RoleSystem, Content: sectionContext},
	}
	messages = append(messages, history(turn.Messages)...)

	raw, err := i.exec.Execute(ctx, agent.Interview, messages)
	if err != nil {
		return nil, fmt.Errorf("interview turn: %w", err)
	}
	obj := utils.ParseObject(raw)

	reply := &Reply{
		Reply:        utils.GetString(obj, "reply"),
		FieldUpdates: sanitize.Sanitize(i.catalog, utils.GetArray(obj, "fieldUpdates")),
		NextSection:  current.ID,
	}
	if reply.Reply == "" {
		reply.Reply = FallbackReply(current)
		reply.FieldUpdates = []models.FieldUpdate{}
	}
	if next := utils.GetString(obj, "nextSection"); next != "" {
		if _, ok := schema.SectionByID(next); ok {
			reply.NextSection = next
		}
	}
	reply.Complete, _ = obj["complete"].(bool)

	reply.IntakeData = cloneData(turn.IntakeData)
	reply.IntakeData.Apply(reply.FieldUpdates)

	i.logger.Info("interview turn",
		zap.String("section", current.ID),
		zap.String("next_section", reply.NextSection),
		zap.Int("updates", len(reply.FieldUpdates)),
		zap.Bool("complete", reply.Complete))
	return reply, nil
}

func (i *Interviewer) renderContext(pt *prompt.PromptTemplate, current schema.Section, turn Turn) (string, error) {
	fieldsJSON, err := json.MarshalIndent(i.catalog.ForSection(current.ID), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode field catalog: %w", err)
	}
	data := turn.IntakeData
	if data == nil {
		data = models.IntakeData{}
	}
	formJSON, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode form values: %w", err)
	}
	docs := make([]promptDoc, 0, len(turn.Documents))
	for _, d := range turn.Documents {
		docs = append(docs, promptDoc{Filename: d.Filename, Summary: d.DocumentSummary})
	}
	return prompt.RenderUserPrompt(pt, map[string]interface{}{
		"SectionID":    current.ID,
		"SectionTitle": current.Title,
		"SectionIDs":   strings.Join(schema.SectionIDs(), ", "),
		"FieldsJSON":   string(fieldsJSON),
		"FormJSON":     string(formJSON),
		"Documents":    docs,
	})
}

// history keeps the last user and assistant turns. The result always starts
// with a user turn.
func history(msgs []llm.Message) []llm.Message {
	var out []llm.Message
	for _, m := range msgs {
		if (m.Role == llm.RoleUser || m.Role == llm.RoleAssistant) && strings.TrimSpace(m.Content) != "" {
			out = append(out, m)
		}
	}
	if len(out) > MaxHistory {
		out = out[len(out)-MaxHistory:]
	}
	if len(out) == 0 || out[0].Role != llm.RoleUser {
		out = append([]llm.Message{{Role: llm.RoleUser, Content: openingMessage}}, out...)
	}
	return out
}

func cloneData(data models.IntakeData) models.IntakeData {
	out := make(models.IntakeData, len(data))
	for section, fields := range data {
		m := make(map[string]interface{}, len(fields))
		for k, v := range fields {
			m[k] = v
		}
		out[section] = m
	}
	return out
}
