package state

import (
	"context"
	"sync"
	"testing"

	"github.com/quizmaker/tg-client/internal/domain/model"
	"github.com/quizmaker/tg-client/internal/taking"
)

// TestManagerGetCreates проверяет создание состояния при первом обращении
// и его сохранение между вызовами.
func TestManagerGetCreates(t *testing.T) {
	m := NewManager()

	us := m.Get(42)
	if us == nil {
		t.Fatal("ожидалось созданное состояние")
	}

	us.Pending = InputLoginPassword
	us.LoginIdentifier = "ivan"

	again := m.Get(42)
	if again != us {
		t.Error("повторный Get должен вернуть то же состояние")
	}
	if again.Pending != InputLoginPassword || again.LoginIdentifier != "ivan" {
		t.Error("состояние не сохранилось между вызовами")
	}
}

// TestManagerReset проверяет сброс состояния при выходе из аккаунта.
func TestManagerReset(t *testing.T) {
	m := NewManager()

	us := m.Get(42)
	us.Pending = InputSearch

	m.Reset(42)

	fresh := m.Get(42)
	if fresh == us {
		t.Error("после сброса должно создаваться новое состояние")
	}
	if fresh.Pending != InputNone {
		t.Errorf("ожидался пустой маркер ввода, получен %q", fresh.Pending)
	}
}

type fakeServer struct {
	test model.Test
}

func (s *fakeServer) GetTest(_ context.Context, _ string, _ int) (*model.Test, error) {
	copied := s.test
	return &copied, nil
}

func (s *fakeServer) SubmitTest(_ context.Context, _ string, _ int, _ model.AnswerMap) (*model.SubmissionResult, error) {
	return &model.SubmissionResult{}, nil
}

func (s *fakeServer) GetTopPerformers(_ context.Context, _ string, _ int) ([]model.TopPerformer, error) {
	return nil, nil
}

// TestConcurrentAnswersSerialized проверяет, что два параллельных
// обновления одного пользователя, каждое под Lock, не конфликтуют на
// общей карте ответов. Обработчики обязаны держать Lock на все время
// работы с состоянием.
func TestConcurrentAnswersSerialized(t *testing.T) {
	server := &fakeServer{test: model.Test{
		ID: 1,
		Questions: []model.Question{
			{ID: "q1", Type: model.QuestionMultiple, Options: []string{"А", "Б", "В"}, Points: 5},
		},
	}}

	m := NewManager()
	us := m.Get(7)
	us.Taking = taking.NewSession(server, 1)
	if err := us.Taking.Load(context.Background(), "token"); err != nil {
		t.Fatalf("не удалось загрузить тест: %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		option := []string{"А", "Б"}[i]
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				st := m.Get(7)
				st.Lock()
				if err := st.Taking.SelectOption("q1", option); err != nil {
					t.Errorf("SelectOption: %v", err)
				}
				st.Unlock()
			}
		}()
	}
	wg.Wait()
}

// TestInFlightSingleWinner проверяет, что из параллельных нажатий
// запрос начинает ровно одно.
func TestInFlightSingleWinner(t *testing.T) {
	us := &UserState{}

	winners := 0
	var mu sync.Mutex
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if us.InFlight.CompareAndSwap(false, true) {
				mu.Lock()
				winners++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if winners != 1 {
		t.Errorf("ожидался один победитель CAS, получено %d", winners)
	}
	us.InFlight.Store(false)
	if !us.InFlight.CompareAndSwap(false, true) {
		t.Error("после завершения запроса повторное нажатие должно проходить")
	}
}

// TestClearPending проверяет сброс маркера и его контекста.
func TestClearPending(t *testing.T) {
	us := &UserState{
		Pending:        InputQuestionText,
		QuestionIndex:  3,
		TakingQuestion: "q1",
	}

	us.ClearPending()

	if us.Pending != InputNone {
		t.Errorf("маркер не сброшен: %q", us.Pending)
	}
	if us.QuestionIndex != 0 || us.TakingQuestion != "" {
		t.Error("контекст маркера не сброшен")
	}
}
