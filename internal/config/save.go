package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// DefaultTemplate is the commented config written by WriteDefault.
const DefaultTemplate = `# panelshell configuration
#
# Panels are overlays shown one at a time. A panel asking to show while a
# panel of equal or higher priority is on screen waits in a queue if it is
# suppressible and is dropped otherwise. Higher priority panels push the
# current panel into the queue; it comes back when they close.

panels:
  - name: help
    title: Help
    key: h
    priority: low
    suppressible: true
    content:
      type: text
      text: Press SPC to open the command menu. esc closes the panel on top, SPC c closes every panel.
  - name: notes
    title: Notes
    key: n
    priority: medium
    suppressible: true
    content:
      type: resource
      resource: notes.md
  - name: uptime
    title: Uptime
    key: u
    priority: high
    content:
      type: command
      command: uptime
      timeout: 5s

ui:
  close_animation: 150ms
  status_bar: true
  mouse: true

resources:
  dir: .panelshell/resources
  cache_ttl: 5m
  markdown_width: 80
  watch: true

log:
  level: info
  format: console
  # file: defaults to the user cache dir

tracing:
  enabled: false
  exporter: otlp-http # otlp-grpc or file
  endpoint: localhost:4318
  # file: spans as JSON lines, for the file exporter
  service_name: panelshell
  insecure: true

control:
  enabled: false
  addr: 127.0.0.1:7878
`

// WriteDefault writes DefaultTemplate to path, creating parent
// directories. An existing file is left alone.
func WriteDefault(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(DefaultTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}

// SavePanels replaces the panels section of the config file at path,
// keeping comments and formatting elsewhere in the file.
func SavePanels(path string, panels []PanelConfig) error {
	if err := ValidatePanels(panels); err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config: %w", err)
	}

	var doc yaml.Node
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("parsing config: %w", err)
		}
	}

	panelsNode := buildPanelsNode(panels)
	if doc.Kind == 0 {
		doc = yaml.Node{
			Kind:    yaml.DocumentNode,
			Content: []*yaml.Node{{Kind: yaml.MappingNode}},
		}
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 || doc.Content[0].Kind != yaml.MappingNode {
		return fmt.Errorf("config %s: top level is not a mapping", path)
	}
	setKey(doc.Content[0], "panels", panelsNode)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	_ = enc.Close()

	return writeAtomic(path, buf.Bytes())
}

func setKey(mapping *yaml.Node, key string, value *yaml.Node) {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			mapping.Content[i+1] = value
			return
		}
	}
	mapping.Content = append(mapping.Content, scalar(key), value)
}

func buildPanelsNode(panels []PanelConfig) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode, Content: make([]*yaml.Node, 0, len(panels))}
	for _, p := range panels {
		pn := &yaml.Node{Kind: yaml.MappingNode}
		pn.Content = append(pn.Content, scalar("name"), scalar(p.Name))
		if p.Title != "" {
			pn.Content = append(pn.Content, scalar("title"), scalar(p.Title))
		}
		if p.Key != "" {
			pn.Content = append(pn.Content, scalar("key"), scalar(p.Key))
		}
		pn.Content = append(pn.Content, scalar("priority"), scalar(p.PanelPriority().String()))
		if p.Suppressible {
			pn.Content = append(pn.Content, scalar("suppressible"), boolScalar(true))
		}
		pn.Content = append(pn.Content, scalar("content"), buildContentNode(p.Content))
		node.Content = append(node.Content, pn)
	}
	return node
}

func buildContentNode(c ContentConfig) *yaml.Node {
	typ := c.Type
	if typ == "" {
		typ = ContentText
	}
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, scalar("type"), scalar(typ))
	switch typ {
	case ContentText:
		n.Content = append(n.Content, scalar("text"), scalar(c.Text))
	case ContentResource:
		n.Content = append(n.Content, scalar("resource"), scalar(c.Resource))
	case ContentCommand:
		n.Content = append(n.Content, scalar("command"), scalar(c.Command))
		if c.Timeout > 0 {
			n.Content = append(n.Content, scalar("timeout"), scalar(c.Timeout.String()))
		}
	}
	return n
}

func scalar(v string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}
}

func boolScalar(v bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(v)}
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".panelshell.yaml.tmp.*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}
