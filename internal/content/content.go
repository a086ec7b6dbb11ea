// Package content holds the static data rendered on the portfolio page.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"net/mail"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Zachkp/scrollfolio/internal/scroll"
)

//go:embed default.yaml
var defaultDocument []byte

var (
	ErrMissingTitle = errors.New("content: site title is required")
	ErrBadEmail     = errors.New("content: contact email is invalid")
	ErrBadLink      = errors.New("content: project link must be an absolute http(s) url")
	ErrNoBody       = errors.New("content: section has no body")
)

// BuiltinSections are the section ids the page renders from structured
// fields. Any other section needs a markdown entry under bodies.
var BuiltinSections = []string{"about", "experience", "skills", "projects", "contact"}

func isBuiltin(id string) bool {
	for _, b := range BuiltinSections {
		if b == id {
			return true
		}
	}
	return false
}

type Site struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Author      string `yaml:"author"`
	DisplayFont string `yaml:"display_font"`
	BodyFont    string `yaml:"body_font"`
	Copyright   string `yaml:"copyright"`
}

type Experience struct {
	Title       string `yaml:"title"`
	Company     string `yaml:"company"`
	Period      string `yaml:"period"`
	Description string `yaml:"description"`
}

type Project struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Link        string `yaml:"link"`
}

type Contact struct {
	Intro string `yaml:"intro"`
	Email string `yaml:"email"`
}

// Document is everything the page shows. About paragraphs and bodies are
// markdown.
type Document struct {
	Site       Site              `yaml:"site"`
	Sections   []scroll.Section  `yaml:"sections"`
	About      []string          `yaml:"about"`
	Experience []Experience      `yaml:"experience"`
	Skills     []string          `yaml:"skills"`
	Projects   []Project         `yaml:"projects"`
	Contact    Contact           `yaml:"contact"`
	Bodies     map[string]string `yaml:"bodies"`
}

// Default returns the document compiled into the binary.
func Default() (*Document, error) {
	return Parse(defaultDocument)
}

// Load reads a document from path, or the built-in one when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse decodes and validates a YAML document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (d *Document) Validate() error {
	if d.Site.Title == "" {
		return ErrMissingTitle
	}
	if err := scroll.ValidateSections(d.Sections); err != nil {
		return err
	}
	for _, sec := range d.Sections {
		if !isBuiltin(sec.ID) && d.Bodies[sec.ID] == "" {
			return fmt.Errorf("%w: %q", ErrNoBody, sec.ID)
		}
	}
	if d.Contact.Email != "" {
		if _, err := mail.ParseAddress(d.Contact.Email); err != nil {
			return fmt.Errorf("%w: %q", ErrBadEmail, d.Contact.Email)
		}
	}
	for _, p := range d.Projects {
		u, err := url.Parse(p.Link)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: %s (%q)", ErrBadLink, p.Title, p.Link)
		}
	}
	return nil
}

// MailTo returns the mailto href for the contact email.
func (d *Document) MailTo() string {
	if d.Contact.Email == "" {
		return ""
	}
	return (&url.URL{Scheme: "mailto", Opaque: d.Contact.Email}).String()
}
