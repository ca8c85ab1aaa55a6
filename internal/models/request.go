package models

import (
	"net/mail"
	"strings"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *RegisterRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	var details []ValidationErrorDetail
	if l := len(r.Username); l < 3 || l > 50 {
		details = append(details, ValidationErrorDetail{Field: "username", Reason: "must be 3-50 characters"})
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		details = append(details, ValidationErrorDetail{Field: "email", Reason: "must be a valid email address"})
	}
	if r.Password == "" {
		details = append(details, ValidationErrorDetail{Field: "password", Reason: "is required"})
	}
	if len(details) > 0 {
		return &ErrorResponse{Code: "validation_error", Message: "Invalid registration request", Details: details}
	}
	return nil
}

// LoginRequest accepts either a username or an email in Username.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" || r.Password == "" {
		return &ErrorResponse{Code: "missing_credentials", Message: "Username and password are required"}
	}
	return nil
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

func (r *RefreshRequest) Validate() error {
	if strings.TrimSpace(r.RefreshToken) == "" {
		return &ErrorResponse{Code: "missing_refresh_token", Message: "refreshToken is required"}
	}
	return nil
}

type CheckUsernameRequest struct {
	Username string `json:"username"`
}

func (r *CheckUsernameRequest) Validate() error {
	r.Username = strings.TrimSpace(r.Username)
	if r.Username == "" {
		return &ErrorResponse{Code: "missing_username", Message: "username is required"}
	}
	return nil
}

type CheckEmailRequest struct {
	Email string `json:"email"`
}

func (r *CheckEmailRequest) Validate() error {
	r.Email = strings.TrimSpace(strings.ToLower(r.Email))
	if _, err := mail.ParseAddress(r.Email); err != nil {
		return &ErrorResponse{Code: "invalid_email", Message: "email must be a valid email address"}
	}
	return nil
}

// UpdateUserRequest is a partial update; nil fields are left unchanged.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
}

func (r *UpdateUserRequest) Validate() error {
	if r.Username == nil && r.Email == nil {
		return &ErrorResponse{Code: "empty_update", Message: "Nothing to update"}
	}
	if r.Username != nil {
		trimmed := strings.TrimSpace(*r.Username)
		if l := len(trimmed); l < 3 || l > 50 {
			return &ErrorResponse{Code: "invalid_username", Message: "username must be 3-50 characters"}
		}
		r.Username = &trimmed
	}
	if r.Email != nil {
		normalized := strings.TrimSpace(strings.ToLower(*r.Email))
		if _, err := mail.ParseAddress(normalized); err != nil {
			return &ErrorResponse{Code: "invalid_email", Message: "email must be a valid email address"}
		}
		r.Email = &normalized
	}
	return nil
}

// ProfileRequest is a partial update of the caller's profile.
type ProfileRequest struct {
	Age             *int     `json:"age"`
	GraduationYear  *int     `json:"graduationYear"`
	Education       *string  `json:"education"`
	School          *string  `json:"school"`
	Major           *string  `json:"major"`
	MajorCategory   *string  `json:"majorCategory"`
	TargetPositions []string `json:"targetPositions"`
}

func (r *ProfileRequest) Validate() error {
	if r.Age != nil && (*r.Age < 16 || *r.Age > 70) {
		return &ErrorResponse{Code: "invalid_age", Message: "age must be between 16 and 70"}
	}
	if r.GraduationYear != nil && (*r.GraduationYear < 1980 || *r.GraduationYear > 2040) {
		return &ErrorResponse{Code: "invalid_graduation_year", Message: "graduationYear must be between 1980 and 2040"}
	}
	if r.Education != nil && !validEducation[*r.Education] {
		return &ErrorResponse{Code: "invalid_education", Message: "education must be one of: college, bachelor, master, phd"}
	}
	return nil
}

var validEducation = map[string]bool{"college": true, "bachelor": true, "master": true, "phd": true}

// QuestionTypes accepted when starting an interview.
var QuestionTypes = map[string]bool{
	"behavioral":  true,
	"technical":   true,
	"situational": true,
	"project":     true,
	"stress":      true,
}

var validDifficulties = map[string]bool{"junior": true, "medium": true, "senior": true}

type StartInterviewRequest struct {
	Mode            Mode     `json:"mode"`
	Position        string   `json:"position"`
	Company         string   `json:"company,omitempty"`
	RoundType       string   `json:"roundType,omitempty"`
	Difficulty      string   `json:"difficulty,omitempty"`
	InterviewStyle  string   `json:"interviewStyle,omitempty"`
	InterviewerID   uint     `json:"interviewerId,omitempty"`
	Duration        int      `json:"duration"`
	QuestionTypes   []string `json:"questionTypes,omitempty"`
	SpecialSettings []string `json:"specialSettings,omitempty"`
	EvaluationFocus []string `json:"evaluationFocus,omitempty"`
}

// HasSetting reports whether name was requested in SpecialSettings.
func (r *StartInterviewRequest) HasSetting(name string) bool {
	for _, s := range r.SpecialSettings {
		if s == name {
			return true
		}
	}
	return false
}

func (r *StartInterviewRequest) Validate() error {
	if r.Mode == "" {
		r.Mode = ModePractice
	}
	if !r.Mode.Valid() {
		return &ErrorResponse{Code: "invalid_mode", Message: "mode must be practice or simulation"}
	}
	r.Position = strings.TrimSpace(r.Position)
	if r.Position == "" {
		return &ErrorResponse{Code: "missing_position", Message: "position is required"}
	}
	if r.Difficulty == "" {
		r.Difficulty = "medium"
	}
	if !validDifficulties[r.Difficulty] {
		return &ErrorResponse{Code: "invalid_difficulty", Message: "difficulty must be one of: junior, medium, senior"}
	}
	if r.Duration == 0 {
		r.Duration = 30
		if r.Mode == ModeSimulation {
			r.Duration = 45
		}
	}
	if r.Duration < 5 || r.Duration > 180 {
		return &ErrorResponse{Code: "invalid_duration", Message: "duration must be between 5 and 180 minutes"}
	}
	for _, qt := range r.QuestionTypes {
		if !QuestionTypes[qt] {
			return &ErrorResponse{
				Code:    "invalid_question_type",
				Message: "unknown question type",
				Details: []ValidationErrorDetail{{Field: "questionTypes", Reason: qt + " is not supported"}},
			}
		}
	}
	return nil
}

type SkipRequest struct {
	SlotID uint   `json:"slotId"`
	Reason string `json:"reason,omitempty"`
}

func (r *SkipRequest) Validate() error {
	if r.SlotID == 0 {
		return &ErrorResponse{Code: "missing_slot", Message: "slotId is required"}
	}
	if len(r.Reason) > 100 {
		return &ErrorResponse{Code: "invalid_reason", Message: "reason must be at most 100 characters"}
	}
	return nil
}

// AnswerRequest submits an answer. Scores are optional; when absent the
// configured evaluator produces them.
type AnswerRequest struct {
	SlotID       uint       `json:"slotId"`
	Text         string     `json:"text,omitempty"`
	Scores       *ScoreCard `json:"scores,omitempty"`
	TimeSpentSec *int       `json:"timeSpentSeconds,omitempty"`
}

func (r *AnswerRequest) Validate() error {
	if r.SlotID == 0 {
		return &ErrorResponse{Code: "missing_slot", Message: "slotId is required"}
	}
	if r.TimeSpentSec != nil && *r.TimeSpentSec < 0 {
		return &ErrorResponse{Code: "invalid_time_spent", Message: "timeSpentSeconds must not be negative"}
	}
	if r.Scores != nil {
		for _, d := range append([]Dimension{DimensionOverall}, Dimensions...) {
			if v := r.Scores.Get(d); v != nil && (*v < 0 || *v > 100) {
				return &ErrorResponse{
					Code:    "invalid_score",
					Message: "scores must be within [0,100]",
					Details: []ValidationErrorDetail{{Field: string(d), Reason: "out of range"}},
				}
			}
		}
	}
	return nil
}

type SlotRequest struct {
	SlotID uint `json:"slotId"`
}

func (r *SlotRequest) Validate() error {
	if r.SlotID == 0 {
		return &ErrorResponse{Code: "missing_slot", Message: "slotId is required"}
	}
	return nil
}

type EmergencyExitRequest struct {
	Reason string `json:"reason"`
}

func (r *EmergencyExitRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		r.Reason = "user_exit"
	}
	if len(r.Reason) > 200 {
		return &ErrorResponse{Code: "invalid_reason", Message: "reason must be at most 200 characters"}
	}
	return nil
}

type PhaseRequest struct {
	Phase Phase `json:"phase"`
}

func (r *PhaseRequest) Validate() error {
	if r.Phase.Index() < 0 {
		return &ErrorResponse{Code: "invalid_phase", Message: "phase must be one of: intro, self, technical, project, behavioral, questions"}
	}
	return nil
}

type InterviewerStatusRequest struct {
	IsSpeaking  bool   `json:"isSpeaking"`
	IsListening bool   `json:"isListening"`
	Phase       *Phase `json:"phase,omitempty"`
}

func (r *InterviewerStatusRequest) Validate() error {
	if r.IsSpeaking && r.IsListening {
		return &ErrorResponse{Code: "invalid_interviewer_state", Message: "interviewer cannot speak and listen at once"}
	}
	if r.Phase != nil && r.Phase.Index() < 0 {
		return &ErrorResponse{Code: "invalid_phase", Message: "unknown phase"}
	}
	return nil
}

type AnalysisRequest struct {
	AudioLevel      *float64 `json:"audioLevel,omitempty"`
	SpeechSpeed     *float64 `json:"speechSpeed,omitempty"`
	EmotionType     string   `json:"emotionType,omitempty"`
	EyeContactScore *float64 `json:"eyeContactScore,omitempty"`
	ConfidenceLevel *float64 `json:"confidenceLevel,omitempty"`
}

func (r *AnalysisRequest) Validate() error {
	if r.AudioLevel == nil && r.SpeechSpeed == nil && r.EmotionType == "" && r.EyeContactScore == nil && r.ConfidenceLevel == nil {
		return &ErrorResponse{Code: "empty_sample", Message: "at least one metric is required"}
	}
	for field, v := range map[string]*float64{
		"audioLevel":      r.AudioLevel,
		"eyeContactScore": r.EyeContactScore,
		"confidenceLevel": r.ConfidenceLevel,
	} {
		if v != nil && (*v < 0 || *v > 100) {
			return &ErrorResponse{
				Code:    "invalid_metric",
				Message: "metrics must be within [0,100]",
				Details: []ValidationErrorDetail{{Field: field, Reason: "out of range"}},
			}
		}
	}
	if r.SpeechSpeed != nil && *r.SpeechSpeed < 0 {
		return &ErrorResponse{Code: "invalid_metric", Message: "speechSpeed must not be negative"}
	}
	return nil
}

type PracticePlanRequest struct {
	TargetAbility   Dimension `json:"targetAbility"`
	DifficultyLevel string    `json:"difficultyLevel"`
	Duration        int       `json:"duration"`
}

func (r *PracticePlanRequest) Validate() error {
	if r.TargetAbility == "" {
		r.TargetAbility = DimensionProfessional
	}
	valid := false
	for _, d := range Dimensions {
		if d == r.TargetAbility {
			valid = true
		}
	}
	if !valid {
		return &ErrorResponse{Code: "invalid_target_ability", Message: "unknown ability dimension"}
	}
	if r.DifficultyLevel == "" {
		r.DifficultyLevel = "medium"
	}
	if !validDifficulties[r.DifficultyLevel] {
		return &ErrorResponse{Code: "invalid_difficulty", Message: "difficultyLevel must be one of: junior, medium, senior"}
	}
	if r.Duration == 0 {
		r.Duration = 30
	}
	if r.Duration < 5 || r.Duration > 240 {
		return &ErrorResponse{Code: "invalid_duration", Message: "duration must be between 5 and 240 minutes"}
	}
	return nil
}
