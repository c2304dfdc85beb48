package vault

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Metadata is the parsed YAML frontmatter of a note file.
type Metadata map[string]interface{}

// Frontmatter keys read and written by the store.
const (
	KeyUUID  = "uuid"
	KeyTitle = "title"
	KeyTags  = "tags"
)

// parseFile splits a markdown file into its frontmatter and body.
// Files without a leading "---" line are all body.
func parseFile(data []byte) (Metadata, string, error) {
	meta := make(Metadata)

	var rest []byte
	switch {
	case bytes.HasPrefix(data, []byte("---\n")):
		rest = data[4:]
	case bytes.HasPrefix(data, []byte("---\r\n")):
		rest = data[5:]
	default:
		return meta, string(data), nil
	}

	var yamlData, body []byte
	if bytes.HasPrefix(rest, []byte("---")) {
		body = rest[3:]
	} else {
		idx := bytes.Index(rest, []byte("\n---"))
		if idx < 0 {
			return nil, "", errors.New("frontmatter started but no closing delimiter found")
		}
		yamlData = rest[:idx]
		body = rest[idx+4:]
	}

	if err := yaml.Unmarshal(yamlData, &meta); err != nil {
		return nil, "", fmt.Errorf("failed to parse frontmatter: %w", err)
	}
	if meta == nil {
		meta = make(Metadata)
	}

	content := strings.TrimPrefix(string(body), "\r\n")
	content = strings.TrimPrefix(content, "\n")
	return meta, content, nil
}

// renderFile serializes frontmatter and body back to markdown.
func renderFile(meta Metadata, content string) ([]byte, error) {
	var buf bytes.Buffer
	if len(meta) > 0 {
		buf.WriteString("---\n")
		encoder := yaml.NewEncoder(&buf)
		encoder.SetIndent(2)
		if err := encoder.Encode(map[string]interface{}(meta)); err != nil {
			return nil, err
		}
		encoder.Close()
		buf.WriteString("---\n")
	}
	buf.WriteString(content)
	return buf.Bytes(), nil
}

// stringValue reads a scalar frontmatter value as a string.
func (m Metadata) stringValue(key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case nil:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// tags reads the tags key, accepting a YAML list or a comma separated string.
func (m Metadata) tags() []string {
	var out []string
	switch v := m[KeyTags].(type) {
	case []interface{}:
		for _, item := range v {
			if item == nil {
				continue
			}
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				out = append(out, s)
			}
		}
	case []string:
		for _, s := range v {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	case string:
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}
