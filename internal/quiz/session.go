package quiz

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
)

// Ошибки сессии
var (
	ErrInvalidTransition = errors.New("invalid session state transition")
	ErrNoQuestions       = errors.New("session has no questions")
	ErrUnknownQuestion   = errors.New("question does not belong to session")
)

// State представляет состояние сессии теста
type State int

const (
	// StateModeSelect - режим еще не выбран
	StateModeSelect State = iota
	// StateSettingsConfigured - режим выбран, настройки применены, тест не запущен
	StateSettingsConfigured
	// StateActive - тест идет
	StateActive
	// StateFinished - тест завершен, итог подсчитан (терминальное состояние)
	StateFinished
	// StateCancelled - тест прерван без сохранения результата (терминальное состояние)
	StateCancelled
)

// String возвращает строковое представление состояния
func (s State) String() string {
	switch s {
	case StateModeSelect:
		return "mode_select"
	case StateSettingsConfigured:
		return "settings_configured"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// Settings содержит параметры прохождения теста
type Settings struct {
	TimeLimit       int `json:"time_limit"`       // в минутах
	QuestionCount   int `json:"question_count"`   // количество вопросов
	AttemptsAllowed int `json:"attempts_allowed"` // допустимое число ошибок
}

// DefaultSettings возвращает настройки по умолчанию для practice/thematic режимов
func DefaultSettings() Settings {
	return Settings{
		TimeLimit:       30,
		QuestionCount:   20,
		AttemptsAllowed: 2,
	}
}

// Summary представляет итог завершенной сессии.
// Все значения пересчитываются с нуля по картам ответов,
// независимо от промежуточного счетчика ошибок.
type Summary struct {
	TotalQuestions int             `json:"total_questions"`
	CorrectAnswers int             `json:"correct_answers"`
	Score          float64         `json:"score"`
	Passed         bool            `json:"passed"`
	TimeSpent      int             `json:"time_spent"` // в секундах
	Answers        []entity.Answer `json:"answers"`
	Unanswered     []int           `json:"unanswered"` // индексы неотвеченных вопросов
}

// Session представляет сессию прохождения теста одним пользователем.
// Живет только в памяти: отбрасывается при отмене или после сохранения результата.
type Session struct {
	mu sync.Mutex

	userID   uint
	state    State
	mode     string
	settings Settings

	// Переключатель "режим практики без ошибок": независим от mode == "practice",
	// при включении итог всегда passed = true
	practiceOverride bool

	questions     []entity.Question
	currentIndex  int
	answers       map[uint]uint   // questionID -> optionID (одиночный выбор)
	multiAnswers  map[uint][]uint // questionID -> optionIDs (множественный выбор)
	timeRemaining int             // в секундах
	incorrect     int
	startedAt     time.Time
	summary       *Summary

	// Гарантия единственного таймера на сессию
	timerClaimed bool
}

// NewSession создает новую сессию в состоянии выбора режима
func NewSession(userID uint) *Session {
	return &Session{
		userID: userID,
		state:  StateModeSelect,
	}
}

// UserID возвращает владельца сессии
func (s *Session) UserID() uint {
	return s.userID
}

// State возвращает текущее состояние сессии
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Mode возвращает выбранный режим теста
func (s *Session) Mode() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Settings возвращает текущие настройки сессии
func (s *Session) Settings() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// SetMode выбирает режим теста и сбрасывает настройки на умолчания режима.
// Для режима exam передаются административные настройки экзамена.
func (s *Session) SetMode(mode string, settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateModeSelect && s.state != StateSettingsConfigured {
		return ErrInvalidTransition
	}
	s.mode = mode
	s.settings = settings
	s.state = StateSettingsConfigured
	return nil
}

// UpdateSettings изменяет настройки до запуска теста
func (s *Session) UpdateSettings(settings Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSettingsConfigured {
		return ErrInvalidTransition
	}
	s.settings = settings
	return nil
}

// SetPracticeOverride включает/выключает режим практики "без ошибок"
func (s *Session) SetPracticeOverride(enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.practiceOverride = enabled
}

// PracticeOverride возвращает состояние переключателя практики
func (s *Session) PracticeOverride() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.practiceOverride
}

// Start запускает тест: перемешивает вопросы, сбрасывает ответы,
// таймер и счетчики
func (s *Session) Start(questions []entity.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateSettingsConfigured {
		return ErrInvalidTransition
	}
	if len(questions) == 0 {
		return ErrNoQuestions
	}

	shuffled := make([]entity.Question, len(questions))
	copy(shuffled, questions)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	s.questions = shuffled
	s.currentIndex = 0
	s.answers = make(map[uint]uint)
	s.multiAnswers = make(map[uint][]uint)
	s.timeRemaining = s.settings.TimeLimit * 60
	s.incorrect = 0
	s.startedAt = time.Now()
	s.summary = nil
	s.state = StateActive
	return nil
}

// Questions возвращает перемешанный список вопросов сессии
func (s *Session) Questions() []entity.Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questions
}

// CurrentIndex возвращает индекс текущего вопроса
func (s *Session) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentIndex
}

// CurrentQuestion возвращает текущий вопрос
func (s *Session) CurrentQuestion() (*entity.Question, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return nil, ErrInvalidTransition
	}
	q := s.questions[s.currentIndex]
	return &q, nil
}

// TimeRemaining возвращает оставшееся время в секундах
func (s *Session) TimeRemaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.timeRemaining
}

// IncorrectCount возвращает текущий счетчик ошибок
func (s *Session) IncorrectCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.incorrect
}

// SelectAnswer записывает ответ на вопрос с одиночным выбором
func (s *Session) SelectAnswer(questionID, optionID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrInvalidTransition
	}
	if !s.hasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	s.answers[questionID] = optionID
	return nil
}

// SelectMultipleAnswers записывает ответ на вопрос с множественным выбором.
// Переданное множество вариантов полностью заменяет предыдущий выбор.
func (s *Session) SelectMultipleAnswers(questionID uint, optionIDs []uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrInvalidTransition
	}
	if !s.hasQuestion(questionID) {
		return ErrUnknownQuestion
	}
	ids := make([]uint, len(optionIDs))
	copy(ids, optionIDs)
	s.multiAnswers[questionID] = ids
	return nil
}

// CheckCurrentAnswer оценивает записанный ответ на текущий вопрос (подтверждение).
// Неверный ответ увеличивает счетчик ошибок. В режиме exam достижение
// допустимого числа ошибок немедленно завершает тест.
// Возвращает (ответ верен, тест завершен досрочно).
func (s *Session) CheckCurrentAnswer() (bool, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return false, false, ErrInvalidTransition
	}

	q := s.questions[s.currentIndex]
	correct := s.isAnswerCorrect(&q)
	if !correct {
		s.incorrect++
		// Досрочное завершение экзамена при исчерпании допустимых ошибок
		if s.mode == entity.ModeExam && s.incorrect >= s.settings.AttemptsAllowed {
			s.finishLocked()
			return false, true, nil
		}
	}
	return correct, false, nil
}

// NextQuestion переходит к следующему вопросу (no-op на последнем)
func (s *Session) NextQuestion() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrInvalidTransition
	}
	if s.currentIndex < len(s.questions)-1 {
		s.currentIndex++
	}
	return nil
}

// PreviousQuestion возвращается к предыдущему вопросу (no-op на первом)
func (s *Session) PreviousQuestion() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrInvalidTransition
	}
	if s.currentIndex > 0 {
		s.currentIndex--
	}
	return nil
}

// GoToQuestion переходит к вопросу по индексу (вне диапазона - no-op)
func (s *Session) GoToQuestion(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return ErrInvalidTransition
	}
	if index >= 0 && index < len(s.questions) {
		s.currentIndex = index
	}
	return nil
}

// Tick уменьшает оставшееся время на одну секунду (кооперативный тик таймера).
// Возвращает (оставшееся время, время истекло). При истечении времени
// вызывающая сторона обязана завершить тест через End.
func (s *Session) Tick() (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return 0, false, ErrInvalidTransition
	}
	if s.timeRemaining > 0 {
		s.timeRemaining--
	}
	return s.timeRemaining, s.timeRemaining == 0, nil
}

// ClaimTimer захватывает право на единственный таймер сессии.
// Возвращает false, если таймер уже запущен другим обработчиком.
func (s *Session) ClaimTimer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timerClaimed {
		return false
	}
	s.timerClaimed = true
	return true
}

// ReleaseTimer освобождает таймер сессии
func (s *Session) ReleaseTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timerClaimed = false
}

// End завершает тест и подсчитывает итог
func (s *Session) End() (*Summary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive {
		return nil, ErrInvalidTransition
	}
	s.finishLocked()
	return s.summary, nil
}

// Summary возвращает итог завершенной сессии (nil, если тест не завершен)
func (s *Session) Summary() *Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summary
}

// Cancel прерывает сессию без подсчета итога
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateActive && s.state != StateSettingsConfigured {
		return ErrInvalidTransition
	}
	s.questions = nil
	s.answers = nil
	s.multiAnswers = nil
	s.summary = nil
	s.currentIndex = 0
	s.incorrect = 0
	s.state = StateCancelled
	return nil
}

// hasQuestion проверяет принадлежность вопроса сессии (вызывать под мьютексом)
func (s *Session) hasQuestion(questionID uint) bool {
	for i := range s.questions {
		if s.questions[i].ID == questionID {
			return true
		}
	}
	return false
}

// isAnswerCorrect оценивает записанный ответ на вопрос (вызывать под мьютексом)
func (s *Session) isAnswerCorrect(q *entity.Question) bool {
	if q.IsMultipleChoice {
		return q.CheckMultipleAnswer(s.multiAnswers[q.ID])
	}
	optionID, ok := s.answers[q.ID]
	if !ok {
		return false
	}
	return q.CheckAnswer(optionID)
}

// finishLocked подсчитывает итог и переводит сессию в Finished (вызывать под мьютексом).
// Итог всегда пересчитывается с нуля по картам ответов.
func (s *Session) finishLocked() {
	total := len(s.questions)
	correctCount := 0
	answers := make([]entity.Answer, 0, total)
	unanswered := make([]int, 0)

	for i := range s.questions {
		q := &s.questions[i]

		var selectedID uint
		var answeredQ bool
		if q.IsMultipleChoice {
			ids := s.multiAnswers[q.ID]
			answeredQ = len(ids) > 0
			if answeredQ {
				selectedID = ids[0]
			}
		} else {
			selectedID, answeredQ = s.answers[q.ID]
		}

		if !answeredQ {
			unanswered = append(unanswered, i)
		}

		correct := answeredQ && s.isAnswerCorrect(q)
		if correct {
			correctCount++
		}

		answers = append(answers, entity.Answer{
			QuestionID:       q.ID,
			SelectedOptionID: selectedID,
			IsCorrect:        correct,
		})
	}

	score := 0.0
	if total > 0 {
		score = float64(correctCount) / float64(total) * 100
	}

	var passed bool
	switch {
	case s.practiceOverride:
		// Переключатель практики: проход засчитывается безусловно
		passed = true
	case s.mode == entity.ModeExam:
		// В экзамене неотвеченные вопросы не считаются ошибками:
		// против лимита идут только ошибки среди отвеченных
		answeredCount := total - len(unanswered)
		incorrectAnswered := answeredCount - correctCount
		passed = incorrectAnswered <= s.settings.AttemptsAllowed
	default:
		incorrectTotal := total - correctCount
		passed = incorrectTotal <= s.settings.AttemptsAllowed
	}

	var timeSpent int
	if s.mode == entity.ModeExam {
		timeSpent = s.settings.TimeLimit*60 - s.timeRemaining
	} else {
		timeSpent = int(time.Since(s.startedAt).Seconds())
	}

	s.summary = &Summary{
		TotalQuestions: total,
		CorrectAnswers: correctCount,
		Score:          score,
		Passed:         passed,
		TimeSpent:      timeSpent,
		Answers:        answers,
		Unanswered:     unanswered,
	}
	s.state = StateFinished
}
