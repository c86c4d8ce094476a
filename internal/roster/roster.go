package roster

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Student is a profile record as stored by the student portal. Skills is a
// free-text comma-separated field.
type Student struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	Education   string `json:"education,omitempty"`
	Skills      string `json:"skills,omitempty"`
	Preferences string `json:"preferences,omitempty"`
}

// JobPosting is a single internship posting inside an organization record.
type JobPosting struct {
	Title    string `json:"title,omitempty"`
	Skills   string `json:"skills,omitempty"`
	Type     string `json:"type,omitempty"`
	Location string `json:"location,omitempty"`
}

// Organization is a registered organization with its posted jobs.
type Organization struct {
	OrgName  string        `json:"org_name,omitempty"`
	Email    string        `json:"email,omitempty"`
	Location string        `json:"location,omitempty"`
	Jobs     []*JobPosting `json:"jobs"`
}

type Students struct {
	Items []*Student
}

type Organizations struct {
	Items []*Organization
}

// LoadStudents reads the students file. A missing file is not an error: the
// portal starts with an empty roster.
func LoadStudents(path string) (*Students, error) {
	var items []*Student
	if err := loadJSON(path, &items); err != nil {
		return nil, fmt.Errorf("loading students from %q: %w", path, err)
	}
	return &Students{Items: items}, nil
}

// LoadOrganizations reads the organizations file. A missing file is not an
// error.
func LoadOrganizations(path string) (*Organizations, error) {
	var items []*Organization
	if err := loadJSON(path, &items); err != nil {
		return nil, fmt.Errorf("loading organizations from %q: %w", path, err)
	}
	return &Organizations{Items: items}, nil
}

func loadJSON(path string, target any) error {
	file, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	defer file.Close()

	stat, err := file.Stat()
	if err != nil {
		return err
	}

	if stat.Size() == 0 {
		return nil
	}

	return json.NewDecoder(file).Decode(target)
}

func saveJSON(path string, source any) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	return enc.Encode(source)
}

// Save writes the students back as indented JSON, the format the portal
// files use.
func (s *Students) Save(path string) error {
	return saveJSON(path, s.Items)
}

func (s *Students) Len() int {
	return len(s.Items)
}

func (s *Students) Names() []string {
	names := make([]string, 0, len(s.Items))
	for _, student := range s.Items {
		names = append(names, student.Name)
	}
	return names
}

func (s *Students) FindByName(name string) *Student {
	for _, student := range s.Items {
		if student.Name == name {
			return student
		}
	}
	return nil
}

// Save writes the organizations back as indented JSON.
func (o *Organizations) Save(path string) error {
	return saveJSON(path, o.Items)
}

func (o *Organizations) Len() int {
	return len(o.Items)
}

// Postings counts jobs across all organizations.
func (o *Organizations) Postings() int {
	count := 0
	for _, org := range o.Items {
		count += len(org.Jobs)
	}
	return count
}

func (o *Organizations) FindByName(name string) *Organization {
	for _, org := range o.Items {
		if org.OrgName == name {
			return org
		}
	}
	return nil
}
