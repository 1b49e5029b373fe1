package app

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"gopkg.in/telebot.v4"

	"github.com/quizmaker/tg-client/internal/api"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/create_test/ai_create_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/create_test/editor_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/create_test/prompt_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/create_test/save_test_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/login_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/logout_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/profile_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/rankings_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/register_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/start_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/take_test/answer_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/take_test/open_test_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/take_test/submit_test_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/take_test/take_text_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/test_list/page_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/test_list/search_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/test_list/tag_filter_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/test_list/tests_handler"
	"github.com/quizmaker/tg-client/internal/app/handlers/telegram/text_handler"
	"github.com/quizmaker/tg-client/internal/app/state"
	"github.com/quizmaker/tg-client/internal/domain/model"
	"github.com/quizmaker/tg-client/internal/infra/config"
	"github.com/quizmaker/tg-client/internal/session"
	"github.com/quizmaker/tg-client/middleware"
)

// App связывает конфигурацию, HTTP-клиент платформы, хранилище сессий и
// Telegram-бота.
type App struct {
	config *config.Config
	bot    *telebot.Bot
	db     *pgxpool.Pool

	apiClient *api.Client
	sessions  *session.Sessions
	states    *state.Manager
}

// NewApp создает приложение по файлу конфигурации.
func NewApp(configPath string) (*App, error) {
	configImpl, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("config.LoadConfig: %w", err)
	}

	app := &App{
		config: configImpl,
		states: state.NewManager(),
	}

	app.apiClient = api.NewClient(configImpl.API.BaseURL, api.WithTimeout(configImpl.API.Timeout))

	store, err := app.initSessionStore()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}
	app.sessions = session.NewSessions(store)

	return app, nil
}

// initSessionStore выбирает хранилище сессий по конфигурации.
func (app *App) initSessionStore() (session.Store, error) {
	switch app.config.Storage.Type {
	case "memory":
		return session.NewMemoryStore(), nil
	case "json":
		return session.NewJSONStore(app.config.Storage.Path), nil
	case "postgres":
		db, err := pgxpool.New(context.Background(), app.config.Storage.DSN)
		if err != nil {
			return nil, fmt.Errorf("pgxpool.New: %w", err)
		}
		if err := db.Ping(context.Background()); err != nil {
			return nil, fmt.Errorf("db.Ping: %w", err)
		}
		app.db = db
		return session.NewPostgresStore(context.Background(), db)
	}
	return nil, fmt.Errorf("неизвестный тип хранилища сессий: %q", app.config.Storage.Type)
}

// ListenAndServeTelegram запускает Telegram-бота.
func (app *App) ListenAndServeTelegram() error {
	bot, err := telebot.NewBot(telebot.Settings{
		Token:  app.config.TelegramBot.Token,
		Poller: &telebot.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return fmt.Errorf("telebot.NewBot: %w", err)
	}
	app.bot = bot

	app.bot.Use(middleware.Recover())
	app.bot.Use(middleware.AutoRespond())
	if app.config.Debug {
		app.bot.Use(middleware.Logger())
		app.bot.Use(middleware.DebugUserActions(true, app.sessions))
	}

	app.bootstrapHandlersTelegram()

	go app.bot.Start()

	return nil
}

// Stop останавливает бота и закрывает соединения.
func (app *App) Stop() {
	if app.bot != nil {
		app.bot.Stop()
	}
	if app.db != nil {
		app.db.Close()
	}
}

// bootstrapHandlersTelegram регистрирует обработчики бота.
func (app *App) bootstrapHandlersTelegram() {
	// Команды.
	app.bot.Handle("/start", start_handler.NewStartHandler(app.sessions).GetHandlerFunc())
	app.bot.Handle("/login", login_handler.NewLoginHandler(app.sessions, app.states).GetHandlerFunc())
	app.bot.Handle("/register", register_handler.NewRegisterHandler(app.sessions, app.states).GetHandlerFunc())
	app.bot.Handle("/logout", logout_handler.NewLogoutHandler(app.sessions, app.states).GetHandlerFunc())

	// Список тестов: загрузка, пагинация, фильтр по тегу, поиск.
	tests := tests_handler.NewTestsHandler(app.apiClient, app.sessions, app.states)
	app.bot.Handle("/tests", tests.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.TestsKey}, tests.GetHandlerFunc())

	pages := page_handler.NewPageHandler(app.states)
	app.bot.Handle(&telebot.InlineButton{Unique: model.NextPageKey}, pages.GetNextHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.PrevPageKey}, pages.GetPrevHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.TagFilterKey}, tag_filter_handler.NewTagFilterHandler(app.states).GetHandlerFunc())
	app.bot.Handle("/search", search_handler.NewSearchHandler(app.states).GetHandlerFunc())

	// Прохождение теста.
	app.bot.Handle(&telebot.InlineButton{Unique: model.OpenTestKey}, open_test_handler.NewOpenTestHandler(app.apiClient, app.sessions, app.states).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.AnswerKey}, answer_handler.NewAnswerHandler(app.states).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.TakeTextKey}, take_text_handler.NewTakeTextHandler(app.states).GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.SubmitTestKey}, submit_test_handler.NewSubmitTestHandler(app.apiClient, app.sessions, app.states).GetHandlerFunc())

	// Редактор теста.
	ed := editor_handler.NewEditorHandler(app.sessions, app.states)
	app.bot.Handle("/create", func(c telebot.Context) error { return ed.HandleOverview(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.CreateTestKey}, func(c telebot.Context) error { return ed.HandleOverview(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.AddQuestionKey}, func(c telebot.Context) error { return ed.HandleAddQuestion(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.EditQuestionKey}, func(c telebot.Context) error { return ed.HandleEditQuestion(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.QuestionTypeKey}, func(c telebot.Context) error { return ed.HandleQuestionType(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.ToggleCorrectKey}, func(c telebot.Context) error { return ed.HandleToggleCorrect(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.DeleteQuestionKey}, func(c telebot.Context) error { return ed.HandleDeleteQuestion(c) })

	prompts := prompt_handler.NewPromptHandler(app.states)
	app.bot.Handle(&telebot.InlineButton{Unique: model.EditTitleKey}, func(c telebot.Context) error { return prompts.HandleTitle(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.EditTagsKey}, func(c telebot.Context) error { return prompts.HandleTags(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.QuestionTextKey}, func(c telebot.Context) error { return prompts.HandleQuestionText(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.QuestionPointsKey}, func(c telebot.Context) error { return prompts.HandleQuestionPoints(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.AddOptionKey}, func(c telebot.Context) error { return prompts.HandleAddOption(c) })
	app.bot.Handle(&telebot.InlineButton{Unique: model.TextAnswerKey}, func(c telebot.Context) error { return prompts.HandleTextAnswer(c) })

	app.bot.Handle(&telebot.InlineButton{Unique: model.SaveTestKey}, save_test_handler.NewSaveTestHandler(app.apiClient, app.sessions, app.states).GetHandlerFunc())

	aiCreate := ai_create_handler.NewAiCreateHandler(app.sessions, app.states)
	app.bot.Handle("/ai", aiCreate.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.AiCreateKey}, aiCreate.GetHandlerFunc())

	// Профиль, рейтинг, выход.
	profile := profile_handler.NewProfileHandler(app.apiClient, app.sessions)
	app.bot.Handle("/profile", profile.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.ProfileKey}, profile.GetHandlerFunc())

	rankings := rankings_handler.NewRankingsHandler(app.apiClient, app.sessions)
	app.bot.Handle("/top", rankings.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.RankingsKey}, rankings.GetHandlerFunc())
	app.bot.Handle(&telebot.InlineButton{Unique: model.LogoutKey}, logout_handler.NewLogoutHandler(app.sessions, app.states).GetHandlerFunc())

	// Текстовые сообщения: диалоговые шаги входа, регистрации, редактора.
	app.bot.Handle(telebot.OnText, text_handler.NewTextHandler(app.apiClient, app.sessions, app.states).GetHandlerFunc())
}
