package helpers

import "fmt"

// GetPointsLabel возвращает форму слова "балл" для указанного количества.
// Упрощенное склонение, как в веб-клиенте: 0 и все значения от 5 — "баллов",
// ровно 1 — "балл", остальные (2–4) — "балла".
func GetPointsLabel(points int) string {
	if points == 0 || points >= 5 {
		return "баллов"
	}
	if points == 1 {
		return "балл"
	}
	return "балла"
}

// FormatPoints форматирует количество баллов вместе с подписью.
func FormatPoints(points int) string {
	return fmt.Sprintf("%d %s", points, GetPointsLabel(points))
}
