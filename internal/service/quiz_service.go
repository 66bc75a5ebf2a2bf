package service

import (
	"fmt"
	"log"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
	apperrors "github.com/yourusername/drivetest-api/internal/pkg/errors"
	"github.com/yourusername/drivetest-api/internal/quiz"
)

// QuizService оркестрирует сессии прохождения тестов: выбор режима,
// подбор вопросов, запуск, ответы, таймер и сохранение итога.
type QuizService struct {
	manager         *quiz.Manager
	questionService *QuestionService
	settingsService *SettingsService
	resultService   *ResultService
}

// NewQuizService создает новый сервис сессий тестов
func NewQuizService(
	manager *quiz.Manager,
	questionService *QuestionService,
	settingsService *SettingsService,
	resultService *ResultService,
) *QuizService {
	return &QuizService{
		manager:         manager,
		questionService: questionService,
		settingsService: settingsService,
		resultService:   resultService,
	}
}

// GetSession возвращает активную сессию пользователя
func (s *QuizService) GetSession(userID uint) (*quiz.Session, error) {
	session := s.manager.Get(userID)
	if session == nil {
		return nil, fmt.Errorf("%w: активная сессия не найдена", apperrors.ErrNotFound)
	}
	return session, nil
}

// SelectMode выбирает режим теста. Завершенная или прерванная сессия
// заменяется новой.
func (s *QuizService) SelectMode(userID uint, mode string) (*quiz.Session, error) {
	if !entity.IsValidMode(mode) {
		return nil, fmt.Errorf("%w: invalid test mode %q", apperrors.ErrValidation, mode)
	}

	session := s.manager.GetOrCreate(userID)
	switch session.State() {
	case quiz.StateFinished, quiz.StateCancelled, quiz.StateActive:
		session = s.manager.Replace(userID)
	}

	settings := quiz.DefaultSettings()
	if mode == entity.ModeExam {
		// Экзамен идет по административным настройкам
		examSettings, err := s.settingsService.GetSettings()
		if err != nil {
			return nil, err
		}
		settings = quiz.Settings{
			TimeLimit:       examSettings.TimeLimit,
			QuestionCount:   examSettings.QuestionCount,
			AttemptsAllowed: examSettings.AttemptsAllowed,
		}
	}

	if err := session.SetMode(mode, settings); err != nil {
		return nil, err
	}
	return session, nil
}

// UpdateSessionSettings изменяет настройки сессии до запуска теста.
// В режиме exam настройки зафиксированы администратором и не меняются.
func (s *QuizService) UpdateSessionSettings(userID uint, settings quiz.Settings) (*quiz.Session, error) {
	session, err := s.GetSession(userID)
	if err != nil {
		return nil, err
	}
	if session.Mode() == entity.ModeExam {
		return nil, fmt.Errorf("%w: настройки экзамена задаются администратором", apperrors.ErrValidation)
	}
	if settings.TimeLimit < 1 || settings.QuestionCount < 1 || settings.AttemptsAllowed < 0 {
		return nil, fmt.Errorf("%w: invalid session settings", apperrors.ErrValidation)
	}
	if err := session.UpdateSettings(settings); err != nil {
		return nil, err
	}
	return session, nil
}

// SetPracticeOverride включает/выключает режим практики "без ошибок"
func (s *QuizService) SetPracticeOverride(userID uint, enabled bool) (*quiz.Session, error) {
	session, err := s.GetSession(userID)
	if err != nil {
		return nil, err
	}
	session.SetPracticeOverride(enabled)
	return session, nil
}

// StartSession запускает тест, подбирая вопросы по режиму сессии.
// Для тематического режима обязателен topicID.
func (s *QuizService) StartSession(userID, topicID uint) (*quiz.Session, error) {
	session, err := s.GetSession(userID)
	if err != nil {
		return nil, err
	}

	var questions []entity.Question
	switch session.Mode() {
	case entity.ModeThematic:
		if topicID == 0 {
			return nil, fmt.Errorf("%w: topic is required for thematic mode", apperrors.ErrValidation)
		}
		questions, err = s.questionService.GetTestQuestions(topicID, session.Settings().QuestionCount)
	case entity.ModePractice, entity.ModeExam:
		questions, err = s.questionService.GetRandomQuestions(session.Settings().QuestionCount)
	default:
		return nil, quiz.ErrInvalidTransition
	}
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("%w: нет вопросов для выбранного режима", apperrors.ErrNotFound)
	}

	if err := session.Start(questions); err != nil {
		return nil, err
	}
	log.Printf("[QuizService] Сессия user=%d запущена: mode=%s, questions=%d",
		userID, session.Mode(), len(questions))
	return session, nil
}

// Answer записывает ответ на вопрос с одиночным выбором
func (s *QuizService) Answer(userID, questionID, optionID uint) error {
	session, err := s.GetSession(userID)
	if err != nil {
		return err
	}
	return session.SelectAnswer(questionID, optionID)
}

// AnswerMultiple записывает ответ на вопрос с множественным выбором
func (s *QuizService) AnswerMultiple(userID, questionID uint, optionIDs []uint) error {
	session, err := s.GetSession(userID)
	if err != nil {
		return err
	}
	return session.SelectMultipleAnswers(questionID, optionIDs)
}

// ConfirmAnswer подтверждает ответ на текущий вопрос.
// При досрочном завершении экзамена сохраняет результат.
// Возвращает (ответ верен, тест завершен досрочно).
func (s *QuizService) ConfirmAnswer(userID uint) (bool, bool, error) {
	session, err := s.GetSession(userID)
	if err != nil {
		return false, false, err
	}

	correct, finished, err := session.CheckCurrentAnswer()
	if err != nil {
		return false, false, err
	}
	if finished {
		if _, err := s.persistSummary(session); err != nil {
			return correct, finished, err
		}
	}
	return correct, finished, nil
}

// Navigate переходит между вопросами: "next", "prev" либо индекс через GoTo
func (s *QuizService) Navigate(userID uint, direction string, index int) error {
	session, err := s.GetSession(userID)
	if err != nil {
		return err
	}
	switch direction {
	case "next":
		return session.NextQuestion()
	case "prev":
		return session.PreviousQuestion()
	case "goto":
		return session.GoToQuestion(index)
	default:
		return fmt.Errorf("%w: unknown navigation direction %q", apperrors.ErrValidation, direction)
	}
}

// Tick уменьшает таймер сессии на секунду. При истечении времени
// завершает тест и сохраняет результат.
// Возвращает (оставшееся время, тест завершен по таймеру).
func (s *QuizService) Tick(userID uint) (int, bool, error) {
	session, err := s.GetSession(userID)
	if err != nil {
		return 0, false, err
	}

	remaining, expired, err := session.Tick()
	if err != nil {
		return 0, false, err
	}
	if expired {
		if _, err := session.End(); err != nil {
			return remaining, true, err
		}
		if _, err := s.persistSummary(session); err != nil {
			return remaining, true, err
		}
		log.Printf("[QuizService] Сессия user=%d завершена по таймеру", userID)
	}
	return remaining, expired, nil
}

// FinishSession завершает тест, сохраняет и возвращает результат
func (s *QuizService) FinishSession(userID uint) (*quiz.Summary, *entity.TestResult, error) {
	session, err := s.GetSession(userID)
	if err != nil {
		return nil, nil, err
	}

	summary, err := session.End()
	if err != nil {
		return nil, nil, err
	}
	result, err := s.persistSummary(session)
	if err != nil {
		return summary, nil, err
	}
	return summary, result, nil
}

// CancelSession прерывает тест без сохранения результата
func (s *QuizService) CancelSession(userID uint) error {
	session, err := s.GetSession(userID)
	if err != nil {
		return err
	}
	if err := session.Cancel(); err != nil {
		return err
	}
	s.manager.Remove(userID)
	return nil
}

// persistSummary сохраняет итог завершенной сессии как TestResult
func (s *QuizService) persistSummary(session *quiz.Session) (*entity.TestResult, error) {
	summary := session.Summary()
	if summary == nil {
		return nil, quiz.ErrInvalidTransition
	}

	result := &entity.TestResult{
		UserID:         session.UserID(),
		TestMode:       session.Mode(),
		TotalQuestions: summary.TotalQuestions,
		CorrectAnswers: summary.CorrectAnswers,
		Score:          summary.Score,
		Passed:         summary.Passed,
		TimeSpent:      summary.TimeSpent,
		Answers:        entity.AnswerArray(summary.Answers),
	}
	saved, err := s.resultService.SaveResult(result)
	if err != nil {
		log.Printf("[QuizService] Не удалось сохранить результат user=%d: %v", session.UserID(), err)
		return nil, err
	}
	return saved, nil
}
