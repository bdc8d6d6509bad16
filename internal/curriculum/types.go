package curriculum

import "github.com/p-n-ai/pai-planner/internal/planner"

// Topic represents a study topic loaded from YAML.
type Topic struct {
	ID               string `yaml:"id" json:"id"`
	Name             string `yaml:"name" json:"name"`
	SubjectID        string `yaml:"subject_id" json:"subject_id,omitempty"`
	SyllabusID       string `yaml:"syllabus_id" json:"syllabus_id,omitempty"`
	DifficultyWeight int    `yaml:"difficulty_weight" json:"difficulty_weight"`
	ExamImportance   int    `yaml:"exam_importance" json:"exam_importance"`
	Provenance       string `yaml:"provenance" json:"provenance,omitempty"`
}

// PlannerTopic returns the fields the allocation engine schedules on.
func (t Topic) PlannerTopic() planner.Topic {
	return planner.Topic{
		ID:               t.ID,
		DifficultyWeight: t.DifficultyWeight,
		ExamImportance:   t.ExamImportance,
	}
}
