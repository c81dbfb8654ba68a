package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"metaseek/internal/model"
)

// DiscordWriter sends results to a Discord channel via Webhook.
type DiscordWriter struct {
	webhookURL string
	client     *http.Client
}

func NewDiscordWriter(webhookURL string) *DiscordWriter {
	return &DiscordWriter{
		webhookURL: webhookURL,
		client:     &http.Client{},
	}
}

func (dw *DiscordWriter) WriteResults(results []model.SearchResult) error {
	if len(results) == 0 {
		return dw.send("No results found.")
	}

	// Discord has a 2000 char limit per message. Split into chunks.
	var chunks []string
	var current strings.Builder
	header := fmt.Sprintf("**Found %d result(s):**\n\n", len(results))
	current.WriteString(header)

	for i, r := range results {
		entry := formatDiscordResult(i+1, r)

		if current.Len()+len(entry) > 1900 {
			chunks = append(chunks, current.String())
			current.Reset()
		}
		current.WriteString(entry)
	}
	if current.Len() > 0 {
		chunks = append(chunks, current.String())
	}

	for _, chunk := range chunks {
		if err := dw.send(chunk); err != nil {
			return err
		}
	}
	return nil
}

func formatDiscordResult(n int, r model.SearchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%d. %s**\n", n, r.Title)
	fmt.Fprintf(&b, "> Engines: %s\n", strings.Join(r.Engines, ", "))
	if r.Description != "" {
		fmt.Fprintf(&b, "> %s\n", r.Description)
	}
	fmt.Fprintf(&b, "> [Open](%s)\n", r.URL)
	b.WriteString("\n")
	return b.String()
}

type discordPayload struct {
	Content string `json:"content"`
}

func (dw *DiscordWriter) send(text string) error {
	payload, err := json.Marshal(discordPayload{Content: text})
	if err != nil {
		return fmt.Errorf("discord: marshaling payload: %w", err)
	}

	resp, err := dw.client.Post(dw.webhookURL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("discord: sending message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var result map[string]interface{}
		json.NewDecoder(resp.Body).Decode(&result)
		return fmt.Errorf("discord: API error %d: %v", resp.StatusCode, result["message"])
	}

	return nil
}
