package models

import (
	"errors"
	"time"
)

type QuestionType string

const (
	MultipleChoice QuestionType = "multiple_choice"
	TrueFalse      QuestionType = "true_false"
	FillInBlank    QuestionType = "fill_in_blank"
)

type Choice struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type Question struct {
	ID       string       `json:"_id"`
	Type     QuestionType `json:"type" validate:"required,question_type"`
	Title    string       `json:"title"`
	Question string       `json:"question"`
	Points   float64      `json:"points" validate:"min=0"`

	// Answer key, shape depends on Type
	Choices         []Choice `json:"choices,omitempty"`
	CorrectOption   *string  `json:"correctOption,omitempty"`
	CorrectAnswer   *bool    `json:"correctAnswer,omitempty"`
	PossibleAnswers []string `json:"possibleAnswers,omitempty"`
}

// Quiz mirrors the backend record. Optional settings are pointers so an absent value
// can be told apart from a zero value; WithDefaults fills them in.
type Quiz struct {
	ID          string     `json:"_id,omitempty"`
	Title       string     `json:"title" validate:"required"`
	Course      string     `json:"course" validate:"required"`
	Description *string    `json:"description,omitempty"`
	Points      *float64   `json:"points,omitempty"`
	Questions   []Question `json:"questions" validate:"dive"`

	// Scheduling
	DueDate        *string `json:"dueDate,omitempty"`
	AvailableFrom  *string `json:"availableFrom,omitempty"`
	AvailableUntil *string `json:"availableUntil,omitempty"`

	// Policy
	Published                   *bool   `json:"published,omitempty"`
	QuizType                    *string `json:"quizType,omitempty"`
	AssignmentGroup             *string `json:"assignmentGroup,omitempty"`
	ShuffleAnswers              *bool   `json:"shuffleAnswers,omitempty"`
	TimeLimit                   *int    `json:"timeLimit,omitempty"` // minutes, 0 = none
	MultipleAttempts            *bool   `json:"multipleAttempts,omitempty"`
	Attempts                    *int    `json:"attempts,omitempty"`
	ShowCorrectAnswers          *string `json:"showCorrectAnswers,omitempty"`
	AccessCode                  *string `json:"accessCode,omitempty"`
	OneQuestionAtTime           *bool   `json:"oneQuestionAtTime,omitempty"`
	WebcamRequired              *bool   `json:"webcamRequired,omitempty"`
	LockQuestionsAfterAnswering *bool   `json:"lockQuestionsAfterAnswering,omitempty"`
}

// Quiz setting defaults used whenever the backend leaves a field out.
const (
	DefaultQuizType           = "Graded Quiz"
	DefaultAssignmentGroup    = "Quizzes"
	DefaultTimeLimit          = 20
	DefaultAttempts           = 1
	DefaultShowCorrectAnswers = "Immediately"
	DefaultPoints             = 100
)

var (
	QuizTypes          = []string{"Graded Quiz", "Practice Quiz", "Graded Survey", "Ungraded Survey"}
	AssignmentGroups   = []string{"Quizzes", "Exams", "Assignments", "Project"}
	ShowAnswerPolicies = []string{"Immediately", "Never", "After Due Date"}
)

// WithDefaults returns a copy of q where every absent setting holds its default.
// Values present on q always win.
func (q Quiz) WithDefaults() Quiz {
	if q.QuizType == nil {
		q.QuizType = Ptr(DefaultQuizType)
	}
	if q.AssignmentGroup == nil {
		q.AssignmentGroup = Ptr(DefaultAssignmentGroup)
	}
	if q.ShuffleAnswers == nil {
		q.ShuffleAnswers = Ptr(true)
	}
	if q.TimeLimit == nil {
		q.TimeLimit = Ptr(DefaultTimeLimit)
	}
	if q.MultipleAttempts == nil {
		q.MultipleAttempts = Ptr(false)
	}
	if q.Attempts == nil {
		q.Attempts = Ptr(DefaultAttempts)
	}
	if q.ShowCorrectAnswers == nil {
		q.ShowCorrectAnswers = Ptr(DefaultShowCorrectAnswers)
	}
	if q.AccessCode == nil {
		q.AccessCode = Ptr("")
	}
	if q.OneQuestionAtTime == nil {
		q.OneQuestionAtTime = Ptr(true)
	}
	if q.WebcamRequired == nil {
		q.WebcamRequired = Ptr(false)
	}
	if q.LockQuestionsAfterAnswering == nil {
		q.LockQuestionsAfterAnswering = Ptr(false)
	}
	if q.Published == nil {
		q.Published = Ptr(false)
	}
	if q.Points == nil {
		q.Points = Ptr[float64](DefaultPoints)
	}
	if q.Questions == nil {
		q.Questions = []Question{}
	}
	return q
}

func (q Quiz) IsPublished() bool            { return q.Published != nil && *q.Published }
func (q Quiz) AllowsMultipleAttempts() bool { return q.MultipleAttempts != nil && *q.MultipleAttempts }

// EffectiveAttempts is the attempt cap: attempts when set to a positive value, else 1.
func (q Quiz) EffectiveAttempts() int {
	if q.Attempts == nil || *q.Attempts <= 0 {
		return DefaultAttempts
	}
	return *q.Attempts
}

func (q Quiz) DueTime(loc *time.Location) (time.Time, bool) {
	return parseOptional(q.DueDate, loc)
}

func (q Quiz) AvailableFromTime(loc *time.Location) (time.Time, bool) {
	return parseOptional(q.AvailableFrom, loc)
}

func (q Quiz) AvailableUntilTime(loc *time.Location) (time.Time, bool) {
	return parseOptional(q.AvailableUntil, loc)
}

// Clone returns a deep enough copy for editing: the question slice is not shared.
func (q Quiz) Clone() Quiz {
	if q.Questions != nil {
		qs := make([]Question, len(q.Questions))
		copy(qs, q.Questions)
		q.Questions = qs
	}
	return q
}

// ===== DRAFT / PERSISTED REFERENCE =====

var ErrDraftHasNoID = errors.New("draft quiz has no backend identifier")

// QuizRef tells a not yet saved quiz apart from one the backend knows. The zero value
// is a draft.
type QuizRef struct {
	id string
}

func DraftRef() QuizRef { return QuizRef{} }

func PersistedRef(id string) QuizRef { return QuizRef{id: id} }

func (r QuizRef) IsDraft() bool { return r.id == "" }

func (r QuizRef) ID() (string, error) {
	if r.IsDraft() {
		return "", ErrDraftHasNoID
	}
	return r.id, nil
}

func (r QuizRef) String() string {
	if r.IsDraft() {
		return "draft"
	}
	return r.id
}

// QuizDraft is the editor's working copy of a quiz.
type QuizDraft struct {
	Ref  QuizRef
	Quiz Quiz
}

// Payload is the body sent to the backend. Drafts never carry an identifier.
func (d QuizDraft) Payload() Quiz {
	q := d.Quiz.Clone()
	if id, err := d.Ref.ID(); err == nil {
		q.ID = id
	} else {
		q.ID = ""
	}
	return q
}

func Ptr[T any](v T) *T { return &v }
