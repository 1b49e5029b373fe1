package model

// RankingUser — строка общего рейтинга пользователей (GET /users/rankings).
type RankingUser struct {
	ID           int     `json:"id"`
	Username     string  `json:"username"`
	TotalEarned  int     `json:"totalEarned"`
	AverageScore float64 `json:"averageScore"`
}

// UserRanking — персональный рейтинг текущего пользователя
// (GET /users/my-ranking). Вычисляется сервером, клиент не изменяет.
type UserRanking struct {
	Rank          int     `json:"rank"`
	TotalUsers    int     `json:"totalUsers"`
	TotalEarned   int     `json:"totalEarned"`
	TotalPossible int     `json:"totalPossible"`
	AverageScore  float64 `json:"averageScore"`
}

// TopPerformer — строка списка лучших результатов по конкретному тесту.
type TopPerformer struct {
	UserID       int    `json:"userId"`
	Username     string `json:"username"`
	EarnedPoints int    `json:"earnedPoints"`
	TotalPoints  int    `json:"totalPoints"`
}

// User — данные текущего пользователя (GET /users/me).
type User struct {
	ID              int              `json:"id"`
	Username        string           `json:"username"`
	Email           string           `json:"email"`
	TestSubmissions []TestSubmission `json:"testSubmissions"`
}
