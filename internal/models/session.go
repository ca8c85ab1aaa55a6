package models

import "time"

type Mode string

const (
	ModePractice   Mode = "practice"
	ModeSimulation Mode = "simulation"
)

func (m Mode) Valid() bool { return m == ModePractice || m == ModeSimulation }

type Status string

const (
	StatusPending     Status = "pending"
	StatusInProgress  Status = "in_progress"
	StatusCompleted   Status = "completed"
	StatusInterrupted Status = "interrupted"
)

// Finished reports whether no further lifecycle action except reads is possible.
func (s Status) Finished() bool { return s == StatusCompleted || s == StatusInterrupted }

type Phase string

const (
	PhaseIntro      Phase = "intro"
	PhaseSelf       Phase = "self"
	PhaseTechnical  Phase = "technical"
	PhaseProject    Phase = "project"
	PhaseBehavioral Phase = "behavioral"
	PhaseQuestions  Phase = "questions"
)

// Phases is the fixed order an interview moves through.
var Phases = []Phase{PhaseIntro, PhaseSelf, PhaseTechnical, PhaseProject, PhaseBehavioral, PhaseQuestions}

// Index returns the position of p in Phases, or -1.
func (p Phase) Index() int {
	for i, candidate := range Phases {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Next returns the phase after p and false when p is the last one.
func (p Phase) Next() (Phase, bool) {
	i := p.Index()
	if i < 0 || i >= len(Phases)-1 {
		return p, false
	}
	return Phases[i+1], true
}

type SlotStatus string

const (
	SlotPending  SlotStatus = "pending"
	SlotCurrent  SlotStatus = "current"
	SlotAnswered SlotStatus = "answered"
	SlotSkipped  SlotStatus = "skipped"
)

// Open reports whether the slot can still be answered or skipped.
func (s SlotStatus) Open() bool { return s == SlotPending || s == SlotCurrent }

type Dimension string

const (
	DimensionOverall              Dimension = "overall"
	DimensionProfessional         Dimension = "professional"
	DimensionSkillMatch           Dimension = "skill_match"
	DimensionLanguageExpression   Dimension = "language_expression"
	DimensionLogicalThinking      Dimension = "logical_thinking"
	DimensionComprehensiveQuality Dimension = "comprehensive_quality"
)

// Dimensions lists the five scored abilities, excluding overall.
var Dimensions = []Dimension{
	DimensionProfessional,
	DimensionSkillMatch,
	DimensionLanguageExpression,
	DimensionLogicalThinking,
	DimensionComprehensiveQuality,
}

// ScoreCard is an overall score plus the five dimension scores, each in [0,100].
type ScoreCard struct {
	Overall              *float64 `gorm:"column:overall_score" json:"overall"`
	Professional         *float64 `gorm:"column:professional_score" json:"professional"`
	SkillMatch           *float64 `gorm:"column:skill_match_score" json:"skillMatch"`
	LanguageExpression   *float64 `gorm:"column:language_expression_score" json:"languageExpression"`
	LogicalThinking      *float64 `gorm:"column:logical_thinking_score" json:"logicalThinking"`
	ComprehensiveQuality *float64 `gorm:"column:comprehensive_quality_score" json:"comprehensiveQuality"`
}

// Get returns the score recorded for d.
func (c ScoreCard) Get(d Dimension) *float64 {
	switch d {
	case DimensionOverall:
		return c.Overall
	case DimensionProfessional:
		return c.Professional
	case DimensionSkillMatch:
		return c.SkillMatch
	case DimensionLanguageExpression:
		return c.LanguageExpression
	case DimensionLogicalThinking:
		return c.LogicalThinking
	case DimensionComprehensiveQuality:
		return c.ComprehensiveQuality
	}
	return nil
}

// Set stores v for d; unknown dimensions are ignored.
func (c *ScoreCard) Set(d Dimension, v *float64) {
	switch d {
	case DimensionOverall:
		c.Overall = v
	case DimensionProfessional:
		c.Professional = v
	case DimensionSkillMatch:
		c.SkillMatch = v
	case DimensionLanguageExpression:
		c.LanguageExpression = v
	case DimensionLogicalThinking:
		c.LogicalThinking = v
	case DimensionComprehensiveQuality:
		c.ComprehensiveQuality = v
	}
}

// IsEmpty is true when no score at all has been recorded.
func (c ScoreCard) IsEmpty() bool {
	if c.Overall != nil {
		return false
	}
	for _, d := range Dimensions {
		if c.Get(d) != nil {
			return false
		}
	}
	return true
}

// SessionSettings are the options chosen when the interview was started.
type SessionSettings struct {
	AllowPause      bool     `json:"allowPause"`
	AllowHints      bool     `json:"allowHints"`
	RealtimeHints   bool     `json:"realtimeHints"`
	StrictTiming    bool     `json:"strictTiming"`
	QuestionTypes   []string `gorm:"serializer:json;type:text" json:"questionTypes"`
	EvaluationFocus []string `gorm:"serializer:json;type:text" json:"evaluationFocus"`
}

// InterviewerState mirrors what the virtual interviewer is doing in a simulation.
type InterviewerState struct {
	IsSpeaking  bool       `json:"isSpeaking"`
	IsListening bool       `json:"isListening"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// PhaseInfo tracks progress through Phases.
type PhaseInfo struct {
	Index     int        `json:"index"`
	Total     int        `json:"total"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// Session is one interview attempt.
type Session struct {
	ID                uint       `gorm:"primaryKey" json:"id"`
	UserID            uint       `gorm:"not null;index" json:"userId"`
	Mode              Mode       `gorm:"type:varchar(20);not null" json:"mode"`
	Status            Status     `gorm:"type:varchar(20);not null;index" json:"status"`
	Phase             Phase      `gorm:"type:varchar(20);not null" json:"phase"`
	Position          string     `gorm:"size:100" json:"position"`
	Company           string     `gorm:"size:100" json:"company,omitempty"`
	RoundType         string     `gorm:"size:20" json:"roundType,omitempty"`
	Difficulty        string     `gorm:"size:20" json:"difficulty,omitempty"`
	InterviewStyle    string     `gorm:"size:30" json:"interviewStyle,omitempty"`
	InterviewerID     uint       `json:"interviewerId,omitempty"`
	ScheduledDuration int        `json:"scheduledDuration"`
	ActualDurationSec *int       `json:"actualDurationSeconds"`
	TotalQuestions    int        `gorm:"not null;default:0" json:"totalQuestions"`
	AnsweredQuestions int        `gorm:"not null;default:0" json:"answeredQuestions"`
	HintsUsed         int        `gorm:"not null;default:0" json:"hintsUsed"`
	PauseCount        int        `gorm:"not null;default:0" json:"pauseCount"`
	IsPaused          bool       `gorm:"not null;default:false" json:"isPaused"`
	IsRecording       bool       `gorm:"not null;default:false" json:"isRecording"`
	IsEmergencyExit   bool       `gorm:"not null;default:false" json:"isEmergencyExit"`
	ExitReason        string     `gorm:"size:200" json:"exitReason,omitempty"`
	StartedAt         *time.Time `json:"startedAt"`
	CompletedAt       *time.Time `json:"completedAt"`
	LastActivity      *time.Time `json:"lastActivity"`

	Scores                 ScoreCard `gorm:"embedded" json:"scores"`
	Feedback               string    `gorm:"type:text" json:"feedback,omitempty"`
	KeyFeedback            string    `gorm:"type:text" json:"keyFeedback,omitempty"`
	ImprovementSuggestions string    `gorm:"type:text" json:"improvementSuggestions,omitempty"`

	Settings    SessionSettings  `gorm:"embedded;embeddedPrefix:setting_" json:"settings"`
	Interviewer InterviewerState `gorm:"embedded;embeddedPrefix:interviewer_" json:"interviewer"`
	PhaseInfo   PhaseInfo        `gorm:"embedded;embeddedPrefix:phase_" json:"phaseInfo"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Slots []QuestionSlot `gorm:"foreignKey:SessionID" json:"slots,omitempty"`
}

func (Session) TableName() string { return "interview_sessions" }

// ReportAvailable is true once the session has been scored.
func (s *Session) ReportAvailable() bool {
	return s.Status.Finished() && s.Scores.Overall != nil
}

// QuestionSlot is one question instance within a Session.
type QuestionSlot struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	SessionID     uint       `gorm:"not null;uniqueIndex:idx_slot_session_seq" json:"sessionId"`
	Sequence      int        `gorm:"not null;uniqueIndex:idx_slot_session_seq" json:"sequence"`
	Status        SlotStatus `gorm:"type:varchar(20);not null" json:"status"`
	Text          string     `gorm:"type:text;not null" json:"text"`
	Type          string     `gorm:"size:30" json:"type"`
	Difficulty    string     `gorm:"size:20" json:"difficulty"`
	Category      string     `gorm:"size:50" json:"category"`
	Phase         Phase      `gorm:"type:varchar(20)" json:"phase,omitempty"`
	TimeLimit     int        `json:"timeLimit"`
	AllowHints    bool       `gorm:"not null;default:false" json:"allowHints"`
	HintText      string     `gorm:"type:text" json:"-"`
	HintUsedCount int        `gorm:"not null;default:0" json:"hintUsedCount"`
	SkipReason    string     `gorm:"size:100" json:"skipReason,omitempty"`
	AskedAt       *time.Time `json:"askedAt,omitempty"`
	AnsweredAt    *time.Time `json:"answeredAt,omitempty"`
	TimeSpentSec  *int       `json:"timeSpentSeconds,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`

	Answer *Answer `gorm:"foreignKey:SlotID" json:"answer,omitempty"`
}

// Answer is the single response recorded for a QuestionSlot.
type Answer struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	SessionID      uint       `gorm:"not null;index" json:"sessionId"`
	SlotID         uint       `gorm:"not null;uniqueIndex" json:"slotId"`
	Text           string     `gorm:"type:text" json:"text,omitempty"`
	AudioPath      string     `gorm:"size:500" json:"audioPath,omitempty"`
	AudioSize      int64      `json:"audioSize,omitempty"`
	VideoPath      string     `gorm:"size:500" json:"videoPath,omitempty"`
	VideoSize      int64      `json:"videoSize,omitempty"`
	FileUploadedAt *time.Time `json:"fileUploadedAt,omitempty"`
	Scores         ScoreCard  `gorm:"embedded" json:"scores"`
	Feedback       string     `gorm:"type:text" json:"feedback,omitempty"`
	Evaluator      string     `gorm:"size:30" json:"evaluator,omitempty"`
	IsComplete     bool       `gorm:"not null;default:false" json:"isComplete"`
	UsedHint       bool       `gorm:"not null;default:false" json:"usedHint"`
	HintViewedAt   *time.Time `json:"hintViewedAt,omitempty"`
	SkipReason     string     `gorm:"size:100" json:"skipReason,omitempty"`
	StartedAt      *time.Time `json:"startedAt,omitempty"`
	SubmittedAt    *time.Time `json:"submittedAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// AnalysisSample is one batch of client-reported delivery metrics.
type AnalysisSample struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	SessionID       uint      `gorm:"not null;index" json:"sessionId"`
	SlotID          *uint     `gorm:"index" json:"slotId,omitempty"`
	UserID          uint      `gorm:"not null;index" json:"userId"`
	AudioLevel      *float64  `json:"audioLevel,omitempty"`
	SpeechSpeed     *float64  `json:"speechSpeed,omitempty"`
	EmotionType     string    `gorm:"size:20" json:"emotionType,omitempty"`
	EyeContactScore *float64  `json:"eyeContactScore,omitempty"`
	ConfidenceLevel *float64  `json:"confidenceLevel,omitempty"`
	RecordedAt      time.Time `gorm:"not null;index" json:"recordedAt"`
}
