package testlist

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/quizmaker/tg-client/internal/domain/model"
)

// DefaultPageSize — размер страницы списка тестов.
const DefaultPageSize = 5

// TestsLoader загружает список тестов с сервера.
type TestsLoader interface {
	GetTests(ctx context.Context, token string) ([]model.Test, error)
}

// ViewModel — состояние списка тестов одного пользователя: загруженный
// список, строка поиска, фильтр по тегу и номер страницы. Фильтрация и
// пагинация — чистые функции над загруженным списком, без повторных
// запросов к серверу.
type ViewModel struct {
	loader   TestsLoader
	tests    []model.Test
	loaded   bool
	search   string
	filter   string
	page     int
	pageSize int
}

// NewViewModel создает модель списка тестов.
func NewViewModel(loader TestsLoader) *ViewModel {
	return &ViewModel{
		loader:   loader,
		page:     1,
		pageSize: DefaultPageSize,
	}
}

// Load загружает список тестов, целиком заменяя кэш. Вызывается при
// открытии списка и повторно по запросу пользователя.
func (vm *ViewModel) Load(ctx context.Context, token string) error {
	tests, err := vm.loader.GetTests(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to load tests: %w", err)
	}
	vm.tests = tests
	vm.loaded = true
	return nil
}

// Loaded сообщает, был ли список уже загружен.
func (vm *ViewModel) Loaded() bool {
	return vm.loaded
}

// SetSearch задает строку поиска и сбрасывает страницу на первую.
func (vm *ViewModel) SetSearch(search string) {
	vm.search = search
	vm.page = 1
}

// SetFilter задает фильтр по тегу и сбрасывает страницу на первую.
func (vm *ViewModel) SetFilter(tag string) {
	vm.filter = tag
	vm.page = 1
}

// SetPage переключает страницу.
func (vm *ViewModel) SetPage(page int) {
	vm.page = page
}

func (vm *ViewModel) Search() string { return vm.search }
func (vm *ViewModel) Filter() string { return vm.filter }
func (vm *ViewModel) Page() int      { return vm.page }

// Filtered возвращает тесты, прошедшие фильтр по тегу (точное вхождение)
// и поиск по названию (подстрока без учета регистра).
func (vm *ViewModel) Filtered() []model.Test {
	return FilterTests(vm.tests, vm.filter, vm.search)
}

// Paged возвращает текущую страницу отфильтрованного списка.
func (vm *ViewModel) Paged() []model.Test {
	return PageSlice(vm.Filtered(), vm.page, vm.pageSize)
}

// PageCount возвращает число страниц отфильтрованного списка.
func (vm *ViewModel) PageCount() int {
	count := len(vm.Filtered())
	if count == 0 {
		return 0
	}
	return (count + vm.pageSize - 1) / vm.pageSize
}

// UniqueTags возвращает отсортированный набор всех тегов загруженных
// тестов — варианты для кнопок фильтра.
func (vm *ViewModel) UniqueTags() []string {
	return UniqueTags(vm.tests)
}

// FilterTests отбирает тесты по тегу и строке поиска. Пустой тег и пустой
// поиск пропускают все тесты.
func FilterTests(tests []model.Test, tag, search string) []model.Test {
	needle := strings.ToLower(search)
	filtered := make([]model.Test, 0, len(tests))
	for _, t := range tests {
		if tag != "" && !containsTag(t.Tags, tag) {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(t.Title), needle) {
			continue
		}
		filtered = append(filtered, t)
	}
	return filtered
}

// PageSlice возвращает страницу списка. Для страницы за пределами списка
// возвращается пустой срез.
func PageSlice(tests []model.Test, page, pageSize int) []model.Test {
	if page < 1 || pageSize < 1 {
		return nil
	}
	start := (page - 1) * pageSize
	if start >= len(tests) {
		return nil
	}
	end := start + pageSize
	if end > len(tests) {
		end = len(tests)
	}
	return tests[start:end]
}

// UniqueTags собирает отсортированный набор различных тегов.
func UniqueTags(tests []model.Test) []string {
	seen := make(map[string]bool)
	var tags []string
	for _, t := range tests {
		for _, tag := range t.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
