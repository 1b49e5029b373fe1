package model

// Константы для кнопок. Привязаны к названиям обработчиков.
// Не следует добавлять/изменять константы без изменения регистрации в app
const (
	TestsKey       = "tests"
	NextPageKey    = "next_page"
	PrevPageKey    = "prev_page"
	TagFilterKey   = "tag_filter"
	OpenTestKey    = "open_test"
	AnswerKey      = "answer"
	SubmitTestKey  = "submit_test"
	CreateTestKey  = "create_test"
	AddQuestionKey = "add_question"
	SaveTestKey    = "save_test"
	AiCreateKey    = "ai_create"
	ProfileKey     = "profile"
	RankingsKey    = "rankings"
	LogoutKey      = "logout"

	TakeTextKey       = "take_text"
	EditTitleKey      = "edit_title"
	EditTagsKey       = "edit_tags"
	EditQuestionKey   = "edit_question"
	QuestionTypeKey   = "qtype"
	QuestionTextKey   = "qtext"
	AddOptionKey      = "qopt_add"
	ToggleCorrectKey  = "qcorrect"
	QuestionPointsKey = "qpoints"
	TextAnswerKey     = "qanswer"
	DeleteQuestionKey = "qdelete"
)
