package catalog

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"interviewprep/internal/models"

	"gopkg.in/yaml.v3"
)

// embeds the catalogue data files into the binary at compile time
//
//go:embed data/*.yaml
var dataFS embed.FS

// Question is one entry of a question bank.
type Question struct {
	ID         int          `yaml:"id" json:"id"`
	Text       string       `yaml:"text" json:"text"`
	Type       string       `yaml:"type" json:"type"`
	Difficulty string       `yaml:"difficulty" json:"difficulty"`
	Category   string       `yaml:"category" json:"category"`
	TimeLimit  int          `yaml:"time_limit" json:"timeLimit"`
	Hint       string       `yaml:"hint" json:"-"`
	Phase      models.Phase `yaml:"phase" json:"phase,omitempty"`
	Mode       models.Mode  `yaml:"-" json:"mode"`
}

type VoiceSettings struct {
	Speed  float64 `yaml:"speed" json:"speed"`
	Pitch  float64 `yaml:"pitch" json:"pitch"`
	Volume float64 `yaml:"volume" json:"volume"`
}

type QuestionStyle struct {
	FormalLevel   float64 `yaml:"formal_level" json:"formalLevel"`
	DetailFocus   float64 `yaml:"detail_focus" json:"detailFocus"`
	Encouragement float64 `yaml:"encouragement" json:"encouragement"`
}

// Interviewer is a virtual interviewer persona.
type Interviewer struct {
	ID                    uint          `yaml:"id" json:"id"`
	Name                  string        `yaml:"name" json:"name"`
	Description           string        `yaml:"description" json:"description"`
	Avatar                string        `yaml:"avatar" json:"avatar"`
	Model                 string        `yaml:"model" json:"model"`
	Specialties           []string      `yaml:"specialties" json:"specialties"`
	Experience            string        `yaml:"experience" json:"experience"`
	Style                 string        `yaml:"style" json:"style"`
	Voice                 VoiceSettings `yaml:"voice" json:"voiceSettings"`
	QuestionStyle         QuestionStyle `yaml:"question_style" json:"questionStyle"`
	SupportsStressTesting bool          `yaml:"supports_stress_testing" json:"supportsStressTesting"`
}

type Skill struct {
	Name        string `yaml:"name" json:"name"`
	Level       string `yaml:"level" json:"level"`
	Importance  int    `yaml:"importance" json:"importance"`
	Description string `yaml:"description" json:"description"`
}

type CareerStep struct {
	Level  int    `yaml:"level" json:"level"`
	Title  string `yaml:"title" json:"title"`
	Years  string `yaml:"years" json:"years"`
	Salary string `yaml:"salary" json:"salary"`
}

// Position describes a job family a candidate can practise for.
type Position struct {
	Type            string       `yaml:"type" json:"type"`
	Title           string       `yaml:"title" json:"title"`
	Description     string       `yaml:"description" json:"description"`
	Salary          string       `yaml:"salary" json:"salary"`
	Trend           string       `yaml:"trend" json:"trend"`
	JobCount        string       `yaml:"job_count" json:"jobCount"`
	Education       string       `yaml:"education" json:"education"`
	CoreSkills      []Skill      `yaml:"core_skills" json:"coreSkills,omitempty"`
	SoftSkills      []string     `yaml:"soft_skills" json:"softSkills,omitempty"`
	Experience      string       `yaml:"experience" json:"experience,omitempty"`
	CareerPath      []CareerStep `yaml:"career_path" json:"careerPath,omitempty"`
	DailyWork       []string     `yaml:"daily_work" json:"dailyWork,omitempty"`
	PreparationTips []string     `yaml:"preparation_tips" json:"preparationTips,omitempty"`
}

// Summary strips the detail fields for list views.
func (p Position) Summary() Position {
	return Position{
		Type:        p.Type,
		Title:       p.Title,
		Description: p.Description,
		Salary:      p.Salary,
		Trend:       p.Trend,
		JobCount:    p.JobCount,
		Education:   p.Education,
	}
}

type PhaseDescriptor struct {
	ID          models.Phase `yaml:"id" json:"id"`
	Title       string       `yaml:"title" json:"title"`
	Description string       `yaml:"description" json:"description"`
}

type Band struct {
	Min  float64 `yaml:"min"`
	Text string  `yaml:"text"`
}

// ModeFeedback holds the report texts for one interview mode.
type ModeFeedback struct {
	Bands               []Band                      `yaml:"bands"`
	KeyFeedback         string                      `yaml:"key_feedback"`
	SuggestionThreshold float64                     `yaml:"suggestion_threshold"`
	Suggestions         map[models.Dimension]string `yaml:"suggestions"`
	NoSuggestions       string                      `yaml:"no_suggestions"`
	DimensionNames      map[models.Dimension]string `yaml:"dimension_names"`
}

type AdviceTemplate struct {
	Min        float64 `yaml:"min" json:"-"`
	Type       string  `yaml:"type" json:"type"`
	Title      string  `yaml:"title" json:"title"`
	Content    string  `yaml:"content" json:"content"`
	Action     string  `yaml:"action" json:"action"`
	ActionText string  `yaml:"action_text" json:"actionText"`
}

type PlanStep struct {
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Share       float64 `yaml:"share"`
}

type PlanTemplate struct {
	Steps               []PlanStep         `yaml:"steps"`
	ExpectedImprovement map[string]float64 `yaml:"expected_improvement"`
	DefaultImprovement  float64            `yaml:"default_improvement"`
	MinutesPerQuestion  int                `yaml:"minutes_per_question"`
}

// RuleTable is the deterministic scoring table of one mode.
type RuleTable struct {
	Scores          map[string]float64  `yaml:"scores"`
	DefaultScore    float64             `yaml:"default_score"`
	Feedback        map[string]string   `yaml:"feedback"`
	DefaultFeedback string              `yaml:"default_feedback"`
	Tips            map[string][]string `yaml:"tips"`
	DefaultTips     []string            `yaml:"default_tips"`
}

type questionsFile struct {
	Practice          []Question        `yaml:"practice"`
	Simulation        []Question        `yaml:"simulation"`
	Hints             map[string]string `yaml:"hints"`
	DefaultHint       string            `yaml:"default_hint"`
	StructureReminder string            `yaml:"structure_reminder"`
	Companies         map[string]string `yaml:"companies"`
	DefaultCompany    string            `yaml:"default_company"`
	Rounds            map[string]string `yaml:"rounds"`
	DefaultRound      string            `yaml:"default_round"`
}

type feedbackFile struct {
	Practice   ModeFeedback `yaml:"practice"`
	Simulation ModeFeedback `yaml:"simulation"`
	Advice     struct {
		Welcome AdviceTemplate   `yaml:"welcome"`
		Bands   []AdviceTemplate `yaml:"bands"`
	} `yaml:"advice"`
	Plan PlanTemplate `yaml:"plan"`
}

type rulesFile struct {
	Practice           RuleTable                    `yaml:"practice"`
	Simulation         RuleTable                    `yaml:"simulation"`
	DimensionOffsets   map[models.Dimension]float64 `yaml:"dimension_offsets"`
	EmptyAnswerPenalty float64                      `yaml:"empty_answer_penalty"`
}

// Catalog is the read-only reference data of the service.
type Catalog struct {
	questions    questionsFile
	feedback     feedbackFile
	rules        rulesFile
	interviewers []Interviewer
	positions    []Position
	phases       []PhaseDescriptor
	byID         map[int]Question
}

// New loads and validates every embedded data file.
func New() (*Catalog, error) {
	c := &Catalog{byID: make(map[int]Question)}

	var interviewers struct {
		Interviewers []Interviewer `yaml:"interviewers"`
	}
	var positions struct {
		Positions []Position `yaml:"positions"`
	}
	var phases struct {
		Phases []PhaseDescriptor `yaml:"phases"`
	}

	files := map[string]any{
		"questions.yaml":    &c.questions,
		"feedback.yaml":     &c.feedback,
		"rules.yaml":        &c.rules,
		"interviewers.yaml": &interviewers,
		"positions.yaml":    &positions,
		"phases.yaml":       &phases,
	}
	for name, dest := range files {
		if err := loadFile(name, dest); err != nil {
			return nil, err
		}
	}
	c.interviewers = interviewers.Interviewers
	c.positions = positions.Positions
	c.phases = phases.Phases

	if err := c.index(); err != nil {
		return nil, err
	}
	return c, nil
}

func loadFile(name string, dest any) error {
	data, err := dataFS.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("failed to read catalog file %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to parse catalog file %s: %w", name, err)
	}
	return nil
}

func (c *Catalog) index() error {
	if len(c.questions.Practice) == 0 || len(c.questions.Simulation) == 0 {
		return fmt.Errorf("catalog: question banks must not be empty")
	}
	for i := range c.questions.Practice {
		c.questions.Practice[i].Mode = models.ModePractice
	}
	for i := range c.questions.Simulation {
		q := &c.questions.Simulation[i]
		q.Mode = models.ModeSimulation
		if q.Phase.Index() < 0 {
			return fmt.Errorf("catalog: simulation question %d has unknown phase %q", q.ID, q.Phase)
		}
	}
	for _, q := range append(append([]Question{}, c.questions.Practice...), c.questions.Simulation...) {
		if _, dup := c.byID[q.ID]; dup {
			return fmt.Errorf("catalog: duplicate question id %d", q.ID)
		}
		if !models.QuestionTypes[q.Type] {
			return fmt.Errorf("catalog: question %d has unknown type %q", q.ID, q.Type)
		}
		c.byID[q.ID] = q
	}
	if len(c.phases) != len(models.Phases) {
		return fmt.Errorf("catalog: expected %d phases, got %d", len(models.Phases), len(c.phases))
	}
	for i, p := range c.phases {
		if p.ID != models.Phases[i] {
			return fmt.Errorf("catalog: phase %d is %q, want %q", i, p.ID, models.Phases[i])
		}
	}
	for _, mf := range []ModeFeedback{c.feedback.Practice, c.feedback.Simulation} {
		if len(mf.Bands) == 0 || mf.Bands[len(mf.Bands)-1].Min != 0 {
			return fmt.Errorf("catalog: feedback bands must end with a zero band")
		}
	}
	return nil
}

// Bank returns a copy of the question bank for mode.
func (c *Catalog) Bank(mode models.Mode) []Question {
	src := c.questions.Practice
	if mode == models.ModeSimulation {
		src = c.questions.Simulation
	}
	return append([]Question(nil), src...)
}

func (c *Catalog) Question(id int) (Question, bool) {
	q, ok := c.byID[id]
	return q, ok
}

// QuestionFilter narrows Questions. Zero values match everything.
type QuestionFilter struct {
	Mode       models.Mode
	Type       string
	Difficulty string
	Category   string
	Search     string
}

// Questions returns bank entries matching f, ordered by id.
func (c *Catalog) Questions(f QuestionFilter) []Question {
	out := []Question{}
	search := strings.ToLower(strings.TrimSpace(f.Search))
	for _, q := range c.byID {
		if f.Mode != "" && q.Mode != f.Mode {
			continue
		}
		if f.Type != "" && q.Type != f.Type {
			continue
		}
		if f.Difficulty != "" && q.Difficulty != f.Difficulty {
			continue
		}
		if f.Category != "" && !strings.EqualFold(q.Category, f.Category) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(q.Text), search) {
			continue
		}
		out = append(out, q)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Hint returns the generic hint for a question type.
func (c *Catalog) Hint(questionType string) string {
	if h, ok := c.questions.Hints[questionType]; ok {
		return h
	}
	return c.questions.DefaultHint
}

func (c *Catalog) StructureReminder() string { return c.questions.StructureReminder }

func (c *Catalog) CompanyName(code string) string {
	if name, ok := c.questions.Companies[code]; ok {
		return name
	}
	return c.questions.DefaultCompany
}

func (c *Catalog) RoundName(code string) string {
	if name, ok := c.questions.Rounds[code]; ok {
		return name
	}
	return c.questions.DefaultRound
}

func (c *Catalog) Interviewers() []Interviewer {
	return append([]Interviewer(nil), c.interviewers...)
}

func (c *Catalog) Interviewer(id uint) (Interviewer, bool) {
	for _, i := range c.interviewers {
		if i.ID == id {
			return i, true
		}
	}
	return Interviewer{}, false
}

func (c *Catalog) Positions() []Position {
	out := make([]Position, 0, len(c.positions))
	for _, p := range c.positions {
		out = append(out, p.Summary())
	}
	return out
}

func (c *Catalog) Position(positionType string) (Position, bool) {
	for _, p := range c.positions {
		if p.Type == positionType {
			return p, true
		}
	}
	return Position{}, false
}

// PositionTypes lists the supported position type codes.
func (c *Catalog) PositionTypes() []string {
	out := make([]string, 0, len(c.positions))
	for _, p := range c.positions {
		out = append(out, p.Type)
	}
	return out
}

func (c *Catalog) Phases() []PhaseDescriptor {
	return append([]PhaseDescriptor(nil), c.phases...)
}

func (c *Catalog) Feedback(mode models.Mode) ModeFeedback {
	if mode == models.ModeSimulation {
		return c.feedback.Simulation
	}
	return c.feedback.Practice
}

func (c *Catalog) Rules(mode models.Mode) RuleTable {
	if mode == models.ModeSimulation {
		return c.rules.Simulation
	}
	return c.rules.Practice
}

func (c *Catalog) DimensionOffset(d models.Dimension) float64 { return c.rules.DimensionOffsets[d] }

func (c *Catalog) EmptyAnswerPenalty() float64 { return c.rules.EmptyAnswerPenalty }

func (c *Catalog) WelcomeAdvice() AdviceTemplate { return c.feedback.Advice.Welcome }

func (c *Catalog) AdviceBands() []AdviceTemplate {
	return append([]AdviceTemplate(nil), c.feedback.Advice.Bands...)
}

func (c *Catalog) Plan() PlanTemplate { return c.feedback.Plan }

// Fill replaces {key} placeholders in text.
func Fill(text string, values map[string]string) string {
	for k, v := range values {
		text = strings.ReplaceAll(text, "{"+k+"}", v)
	}
	return text
}
