// Package seed holds the bundled portfolio content shown when the backend
// cannot be reached, plus the skill list, which has no backend collection.
package seed

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/appadook/full-stack-portfolio/portfolio"
)

//go:embed data/*.yaml
var files embed.FS

type Skill struct {
	Name string `yaml:"name"`
}

// SkillCategory groups skills under a heading. Categories keep file order.
type SkillCategory struct {
	Category string  `yaml:"category"`
	Skills   []Skill `yaml:"skills"`
}

type Data struct {
	Experiences []portfolio.Experience
	Projects    []portfolio.Project
	Skills      []SkillCategory
}

// SkillCount is the total number of skills across all categories.
func (d *Data) SkillCount() int {
	total := 0
	for _, c := range d.Skills {
		total += len(c.Skills)
	}
	return total
}

// Load parses the embedded data files.
func Load() (*Data, error) {
	data := &Data{}
	if err := decode("data/experiences.yaml", &data.Experiences); err != nil {
		return nil, err
	}
	if err := decode("data/projects.yaml", &data.Projects); err != nil {
		return nil, err
	}
	if err := decode("data/skills.yaml", &data.Skills); err != nil {
		return nil, err
	}
	return data, nil
}

// MustLoad is Load for callers that treat broken embedded data as a build error.
func MustLoad() *Data {
	data, err := Load()
	if err != nil {
		panic(err)
	}
	return data
}

func decode(name string, out any) error {
	raw, err := files.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}
