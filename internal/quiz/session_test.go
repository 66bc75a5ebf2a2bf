package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/drivetest-api/internal/domain/entity"
)

// makeQuestions создает count вопросов с одним правильным вариантом (ID 1)
func makeQuestions(count int) []entity.Question {
	questions := make([]entity.Question, count)
	for i := 0; i < count; i++ {
		questions[i] = entity.Question{
			ID:   uint(i + 1),
			Text: "Вопрос",
			Options: entity.OptionArray{
				{ID: 1, Text: "Верный", IsCorrect: true},
				{ID: 2, Text: "Неверный"},
			},
		}
	}
	return questions
}

// startedSession создает сессию в состоянии Active с count вопросами
func startedSession(t *testing.T, mode string, settings Settings, count int) *Session {
	t.Helper()
	s := NewSession(1)
	require.NoError(t, s.SetMode(mode, settings))
	require.NoError(t, s.Start(makeQuestions(count)))
	return s
}

// answerAll отвечает на все вопросы: correctCount верных, остальные неверные
func answerAll(t *testing.T, s *Session, correctCount int) {
	t.Helper()
	for i, q := range s.Questions() {
		optionID := uint(2)
		if i < correctCount {
			optionID = 1
		}
		require.NoError(t, s.SelectAnswer(q.ID, optionID))
	}
}

func TestSession_InitialState(t *testing.T) {
	// Arrange & Act
	s := NewSession(42)

	// Assert
	assert.Equal(t, StateModeSelect, s.State(), "Новая сессия должна начинаться с выбора режима")
	assert.Equal(t, uint(42), s.UserID())
}

func TestSession_SetMode_Transitions(t *testing.T) {
	// Arrange
	s := NewSession(1)

	// Act
	err := s.SetMode(entity.ModePractice, DefaultSettings())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StateSettingsConfigured, s.State())
	assert.Equal(t, entity.ModePractice, s.Mode())

	// Act: повторный выбор режима до запуска разрешен
	err = s.SetMode(entity.ModeExam, Settings{TimeLimit: 20, QuestionCount: 10, AttemptsAllowed: 1})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, entity.ModeExam, s.Mode())
	assert.Equal(t, 20, s.Settings().TimeLimit, "Настройки должны замениться настройками нового режима")
}

func TestSession_Start_RequiresConfiguredState(t *testing.T) {
	// Arrange
	s := NewSession(1)

	// Act
	err := s.Start(makeQuestions(5))

	// Assert
	assert.ErrorIs(t, err, ErrInvalidTransition, "Запуск без выбора режима должен быть запрещен")
}

func TestSession_Start_RequiresQuestions(t *testing.T) {
	// Arrange
	s := NewSession(1)
	require.NoError(t, s.SetMode(entity.ModePractice, DefaultSettings()))

	// Act
	err := s.Start(nil)

	// Assert
	assert.ErrorIs(t, err, ErrNoQuestions)
}

func TestSession_Start_ResetsStateAndTimer(t *testing.T) {
	// Arrange
	settings := Settings{TimeLimit: 10, QuestionCount: 5, AttemptsAllowed: 2}
	s := startedSession(t, entity.ModeExam, settings, 5)

	// Assert
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 10*60, s.TimeRemaining(), "Таймер должен быть установлен из настроек")
	assert.Equal(t, 0, s.CurrentIndex())
	assert.Equal(t, 0, s.IncorrectCount())
	assert.Len(t, s.Questions(), 5)
	assert.Nil(t, s.Summary())
}

func TestSession_Navigation_Boundaries(t *testing.T) {
	// Arrange
	s := startedSession(t, entity.ModePractice, DefaultSettings(), 3)

	// Act & Assert: назад с первого вопроса - no-op
	require.NoError(t, s.PreviousQuestion())
	assert.Equal(t, 0, s.CurrentIndex())

	// Act & Assert: вперед до конца и за конец
	require.NoError(t, s.NextQuestion())
	require.NoError(t, s.NextQuestion())
	assert.Equal(t, 2, s.CurrentIndex())
	require.NoError(t, s.NextQuestion())
	assert.Equal(t, 2, s.CurrentIndex(), "Переход за последний вопрос должен быть no-op")

	// Act & Assert: прямой переход
	require.NoError(t, s.GoToQuestion(1))
	assert.Equal(t, 1, s.CurrentIndex())
	require.NoError(t, s.GoToQuestion(99))
	assert.Equal(t, 1, s.CurrentIndex(), "Переход на несуществующий индекс должен быть no-op")
}

func TestSession_SelectAnswer_UnknownQuestion(t *testing.T) {
	// Arrange
	s := startedSession(t, entity.ModePractice, DefaultSettings(), 3)

	// Act
	err := s.SelectAnswer(999, 1)

	// Assert
	assert.ErrorIs(t, err, ErrUnknownQuestion)
}

func TestSession_SelectAnswer_ReplacesPreviousChoice(t *testing.T) {
	// Arrange
	s := startedSession(t, entity.ModePractice, DefaultSettings(), 1)
	q := s.Questions()[0]

	// Act: сначала неверный вариант, затем верный
	require.NoError(t, s.SelectAnswer(q.ID, 2))
	require.NoError(t, s.SelectAnswer(q.ID, 1))
	summary, err := s.End()

	// Assert: засчитан последний выбор
	require.NoError(t, err)
	assert.Equal(t, 1, summary.CorrectAnswers, "Повторный выбор должен заменить предыдущий")
}

func TestSession_CheckCurrentAnswer_CountsIncorrect(t *testing.T) {
	// Arrange
	s := startedSession(t, entity.ModePractice, DefaultSettings(), 3)
	q := s.Questions()[0]

	// Act: неверный ответ
	require.NoError(t, s.SelectAnswer(q.ID, 2))
	correct, finished, err := s.CheckCurrentAnswer()

	// Assert
	require.NoError(t, err)
	assert.False(t, correct)
	assert.False(t, finished, "Практика не завершается досрочно")
	assert.Equal(t, 1, s.IncorrectCount())
}

func TestSession_ExamEarlyTermination(t *testing.T) {
	// Arrange: экзамен с лимитом 2 ошибки
	settings := Settings{TimeLimit: 30, QuestionCount: 5, AttemptsAllowed: 2}
	s := startedSession(t, entity.ModeExam, settings, 5)

	// Act: первая ошибка
	q0 := s.Questions()[0]
	require.NoError(t, s.SelectAnswer(q0.ID, 2))
	_, finished, err := s.CheckCurrentAnswer()
	require.NoError(t, err)
	assert.False(t, finished, "Первая ошибка не должна завершать экзамен")

	// Act: вторая ошибка достигает лимита
	require.NoError(t, s.NextQuestion())
	q1 := s.Questions()[1]
	require.NoError(t, s.SelectAnswer(q1.ID, 2))
	correct, finished, err := s.CheckCurrentAnswer()

	// Assert: экзамен завершен досрочно
	require.NoError(t, err)
	assert.False(t, correct)
	assert.True(t, finished, "Вторая ошибка должна завершить экзамен досрочно")
	assert.Equal(t, StateFinished, s.State())

	// Итог подсчитан: ровно 2 ошибки не превышают лимит 2
	summary := s.Summary()
	require.NotNil(t, summary)
	assert.True(t, summary.Passed, "Ошибки на границе лимита не превышают его")
}

func TestSession_PracticeMode_NoEarlyTermination(t *testing.T) {
	// Arrange: практика с тем же лимитом ошибок
	settings := Settings{TimeLimit: 30, QuestionCount: 5, AttemptsAllowed: 2}
	s := startedSession(t, entity.ModePractice, settings, 5)

	// Act: три ошибки подряд
	for i := 0; i < 3; i++ {
		q := s.Questions()[i]
		require.NoError(t, s.SelectAnswer(q.ID, 2))
		_, finished, err := s.CheckCurrentAnswer()
		require.NoError(t, err)
		assert.False(t, finished, "Практика никогда не завершается по лимиту ошибок")
		require.NoError(t, s.NextQuestion())
	}

	// Assert
	assert.Equal(t, StateActive, s.State())
	assert.Equal(t, 3, s.IncorrectCount())
}

func TestSession_End_RecomputesFromScratch(t *testing.T) {
	// Arrange: экзамен, 20 вопросов, 17 верных, 3 неверных, лимит 2
	settings := Settings{TimeLimit: 30, QuestionCount: 20, AttemptsAllowed: 2}
	s := startedSession(t, entity.ModeExam, settings, 20)
	answerAll(t, s, 17)

	// Act
	summary, err := s.End()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 20, summary.TotalQuestions)
	assert.Equal(t, 17, summary.CorrectAnswers)
	assert.InDelta(t, 85.0, summary.Score, 0.001)
	assert.False(t, summary.Passed, "3 ошибки при лимите 2 должны провалить тест")
	assert.Empty(t, summary.Unanswered)
	assert.Len(t, summary.Answers, 20)
	assert.Equal(t, StateFinished, s.State())
}

func TestSession_End_PassWithinLimit(t *testing.T) {
	// Arrange: 2 ошибки при лимите 2
	settings := Settings{TimeLimit: 30, QuestionCount: 20, AttemptsAllowed: 2}
	s := startedSession(t, entity.ModeThematic, settings, 20)
	answerAll(t, s, 18)

	// Act
	summary, err := s.End()

	// Assert
	require.NoError(t, err)
	assert.True(t, summary.Passed, "2 ошибки при лимите 2 должны засчитать проход")
}

func TestSession_ExamPass_UnansweredNotCounted(t *testing.T) {
	// Arrange: экзамен, отвечено 3 из 5, все три верно
	settings := Settings{TimeLimit: 30, QuestionCount: 5, AttemptsAllowed: 1}
	s := startedSession(t, entity.ModeExam, settings, 5)
	for i := 0; i < 3; i++ {
		q := s.Questions()[i]
		require.NoError(t, s.SelectAnswer(q.ID, 1))
	}

	// Act
	summary, err := s.End()

	// Assert: в экзамене против лимита идут только ошибки среди отвеченных
	require.NoError(t, err)
	assert.Equal(t, 3, summary.CorrectAnswers)
	assert.Len(t, summary.Unanswered, 2)
	assert.True(t, summary.Passed, "Неотвеченные вопросы не должны считаться ошибками в экзамене")
}

func TestSession_ThematicPass_UnansweredCounted(t *testing.T) {
	// Arrange: тематический режим, отвечено 3 из 5 верно, лимит 1
	settings := Settings{TimeLimit: 30, QuestionCount: 5, AttemptsAllowed: 1}
	s := startedSession(t, entity.ModeThematic, settings, 5)
	for i := 0; i < 3; i++ {
		q := s.Questions()[i]
		require.NoError(t, s.SelectAnswer(q.ID, 1))
	}

	// Act
	summary, err := s.End()

	// Assert: вне экзамена неотвеченные вопросы идут против лимита
	require.NoError(t, err)
	assert.False(t, summary.Passed, "2 неотвеченных вопроса при лимите 1 должны провалить тест")
}

func TestSession_PracticeOverride_ForcesPass(t *testing.T) {
	// Arrange: все ответы неверные, но включен режим практики "без ошибок"
	settings := Settings{TimeLimit: 30, QuestionCount: 5, AttemptsAllowed: 0}
	s := startedSession(t, entity.ModeThematic, settings, 5)
	s.SetPracticeOverride(true)
	answerAll(t, s, 0)

	// Act
	summary, err := s.End()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, summary.CorrectAnswers)
	assert.True(t, summary.Passed, "Режим практики должен засчитывать проход безусловно")
}

func TestSession_MultipleChoice_ExactSetGrading(t *testing.T) {
	// Arrange: один вопрос с двумя правильными вариантами
	question := entity.Question{
		ID:               1,
		IsMultipleChoice: true,
		Options: entity.OptionArray{
			{ID: 1, IsCorrect: true},
			{ID: 2},
			{ID: 3, IsCorrect: true},
		},
	}
	s := NewSession(1)
	require.NoError(t, s.SetMode(entity.ModePractice, DefaultSettings()))
	require.NoError(t, s.Start([]entity.Question{question}))

	// Act: частичный выбор
	require.NoError(t, s.SelectMultipleAnswers(1, []uint{1}))
	summary, err := s.End()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, summary.CorrectAnswers, "Частичный выбор должен быть неверным")
}

func TestSession_Tick_ExpiresAtZero(t *testing.T) {
	// Arrange: одна минута на тест
	settings := Settings{TimeLimit: 1, QuestionCount: 1, AttemptsAllowed: 0}
	s := startedSession(t, entity.ModeExam, settings, 1)

	// Act: 59 тиков не истекают
	for i := 0; i < 59; i++ {
		_, expired, err := s.Tick()
		require.NoError(t, err)
		assert.False(t, expired)
	}

	// Act: 60-й тик истекает
	remaining, expired, err := s.Tick()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
	assert.True(t, expired, "Таймер должен истечь на нуле")
}

func TestSession_ClaimTimer_SingleOwner(t *testing.T) {
	// Arrange
	s := startedSession(t, entity.ModeExam, DefaultSettings(), 1)

	// Act & Assert
	assert.True(t, s.ClaimTimer(), "Первый захват таймера должен пройти")
	assert.False(t, s.ClaimTimer(), "Повторный захват должен быть отклонен")

	s.ReleaseTimer()
	assert.True(t, s.ClaimTimer(), "После освобождения таймер снова доступен")
}

func TestSession_Cancel_DiscardsProgress(t *testing.T) {
	// Arrange
	s := startedSession(t, entity.ModePractice, DefaultSettings(), 3)
	answerAll(t, s, 3)

	// Act
	err := s.Cancel()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, StateCancelled, s.State())
	assert.Nil(t, s.Summary(), "Отмена не должна подсчитывать итог")

	// Act & Assert: терминальное состояние
	assert.ErrorIs(t, s.Cancel(), ErrInvalidTransition)
	_, err = s.End()
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestSession_End_TerminalState(t *testing.T) {
	// Arrange
	s := startedSession(t, entity.ModePractice, DefaultSettings(), 1)
	_, err := s.End()
	require.NoError(t, err)

	// Act & Assert: повторное завершение запрещено
	_, err = s.End()
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.ErrorIs(t, s.NextQuestion(), ErrInvalidTransition)
	assert.ErrorIs(t, s.SelectAnswer(1, 1), ErrInvalidTransition)
}

func TestManager_OneSessionPerUser(t *testing.T) {
	// Arrange
	m := NewManager()

	// Act
	first := m.GetOrCreate(1)
	second := m.GetOrCreate(1)
	other := m.GetOrCreate(2)

	// Assert
	assert.Same(t, first, second, "Один пользователь должен получать одну и ту же сессию")
	assert.NotSame(t, first, other)
	assert.Equal(t, 2, m.Count())

	// Act: замена и удаление
	replaced := m.Replace(1)
	assert.NotSame(t, first, replaced, "Replace должен создать новую сессию")

	m.Remove(2)
	assert.Nil(t, m.Get(2))
	assert.Equal(t, 1, m.Count())
}
