package web

import (
	"embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/zatekoja/premier-landing/backend/internal/domain/entities"
)

//go:embed content/page.yaml
var defaultContent []byte

//go:embed templates static
var assets embed.FS

// LoadContent reads the page copy from path, or the embedded copy when path
// is empty
func LoadContent(path string) (*entities.PageContent, error) {
	data := defaultContent
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read content %s: %w", path, err)
		}
		data = raw
	}
	return ParseContent(data)
}

// ParseContent decodes YAML page copy and links each tab to its form
func ParseContent(data []byte) (*entities.PageContent, error) {
	var content entities.PageContent
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to parse content: %w", err)
	}

	if len(content.Tabs) == 0 {
		return nil, fmt.Errorf("content defines no tabs")
	}
	seen := make(map[entities.TabID]bool, len(content.Tabs))
	for i := range content.Tabs {
		tab := &content.Tabs[i]
		switch tab.ID {
		case entities.TabAppointment, entities.TabConsult, entities.TabSupport:
		default:
			return nil, fmt.Errorf("content tab %q is unknown", tab.ID)
		}
		if seen[tab.ID] {
			return nil, fmt.Errorf("content tab %q is listed twice", tab.ID)
		}
		seen[tab.ID] = true
		tab.Form = tab.ID.FormKind()
	}

	if content.Forms == nil {
		content.Forms = make(map[entities.FormKind]entities.FormCopy)
	}
	return &content, nil
}
