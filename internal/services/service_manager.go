package services

import (
	"github.com/SAP-F-2025/kambaz-client/internal/models"
	"github.com/SAP-F-2025/kambaz-client/internal/store"
	"github.com/SAP-F-2025/kambaz-client/internal/utils"
	"github.com/SAP-F-2025/kambaz-client/internal/validator"
)

// ServiceManager wires every service to one backend and one state container
type ServiceManager interface {
	Account() AccountService
	Quiz() QuizService
	Attempt() AttemptService
	State() *store.State

	NewDraft(courseID string) *QuizEditor
	Edit(quiz models.Quiz) *QuizEditor
	EditDraft(draft models.QuizDraft) *QuizEditor
}

type serviceManager struct {
	account   AccountService
	quiz      QuizService
	attempt   AttemptService
	state     *store.State
	validator *validator.Validator
}

func NewServiceManager(backend Backend, state *store.State, logger utils.Logger, v *validator.Validator) ServiceManager {
	return &serviceManager{
		account:   NewAccountService(backend, state, logger, v),
		quiz:      NewQuizService(backend, state, logger, v),
		attempt:   NewAttemptService(backend, state, logger),
		state:     state,
		validator: v,
	}
}

func (m *serviceManager) Account() AccountService { return m.account }
func (m *serviceManager) Quiz() QuizService       { return m.quiz }
func (m *serviceManager) Attempt() AttemptService { return m.attempt }
func (m *serviceManager) State() *store.State     { return m.state }

func (m *serviceManager) NewDraft(courseID string) *QuizEditor {
	return NewDraft(courseID, m.validator)
}

func (m *serviceManager) Edit(quiz models.Quiz) *QuizEditor {
	return Edit(quiz, m.validator)
}

func (m *serviceManager) EditDraft(draft models.QuizDraft) *QuizEditor {
	return EditDraft(draft, m.validator)
}
