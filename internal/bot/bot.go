package bot

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"taskbuddy/internal/model"
	"taskbuddy/internal/parser"
	"taskbuddy/internal/repository"
	"taskbuddy/internal/service"
)

const (
	cbDonePrefix     = "done:"
	cbMissedPrefix   = "missed:"
	cbLaterPrefix    = "later:"
	cbPostponePrefix = "postpone:"
	cbProjectPrefix  = "project:"
	cbNewProject     = "new_project"
)

const (
	menuLabelAddTask  = "🌟 Добавить задачу"
	menuLabelToday    = "📋 Мои задачи"
	menuLabelDone     = "🏁 Выполненные"
	menuLabelProgress = "📈 Прогресс"
	menuLabelProjects = "📁 Проекты"
	menuLabelWeek     = "🎯 За неделю"
)

const (
	prefixCreateProject   = "проект:"
	prefixCompleteProject = "завершить проект "
	prefixDeleteProject   = "удалить проект "
)

const formatHint = "Формат: <b>Название / ЧЧ:ММ / ДД.ММ / #проект</b> (дата и проект — по желанию)\n\n" +
	"Например: <code>Убраться / 21:00 / 18.07 / #дом</code>"

const displayDateLayout = "02.01"

// Bot routes Telegram updates into the task services and renders replies.
type Bot struct {
	api        *tgbotapi.BotAPI
	userRepo   *repository.UserRepository
	taskSvc    *service.TaskService
	projectSvc *service.ProjectService
	statsSvc   *service.StatsService
}

func New(token string, userRepo *repository.UserRepository, taskSvc *service.TaskService, projectSvc *service.ProjectService, statsSvc *service.StatsService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	return &Bot{
		api:        api,
		userRepo:   userRepo,
		taskSvc:    taskSvc,
		projectSvc: projectSvc,
		statsSvc:   statsSvc,
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		switch {
		case update.CallbackQuery != nil:
			if err := b.handleCallback(ctx, update.CallbackQuery); err != nil {
				log.Printf("handle callback: %v", err)
			}
		case update.Message != nil:
			if update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
				continue
			}
			if err := b.handleMessage(ctx, update.Message); err != nil {
				log.Printf("handle message: %v", err)
			}
		}
	}

	return nil
}

// DispatchReminders drains the reminder stream and delivers each request
// with the three response actions attached.
func (b *Bot) DispatchReminders(ctx context.Context, reminders <-chan service.Reminder) {
	for {
		select {
		case <-ctx.Done():
			return
		case r, ok := <-reminders:
			if !ok {
				return
			}
			msg := tgbotapi.NewMessage(r.UserID, fmt.Sprintf("🌸 Напоминание: %s", escape(r.Title)))
			msg.ParseMode = tgbotapi.ModeHTML
			msg.ReplyMarkup = taskButtons(r.TaskID)
			if _, err := b.api.Send(msg); err != nil {
				log.Printf("send reminder to %d: %v", r.UserID, err)
			}
		}
	}
}

// SendDailyAgenda pushes today's task list to every known user.
func (b *Bot) SendDailyAgenda(ctx context.Context) error {
	ids, err := b.userRepo.AllIDs(ctx)
	if err != nil {
		return err
	}
	now := time.Now()
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		tasks, err := b.taskSvc.TasksForToday(ctx, id, now)
		if err != nil {
			log.Printf("agenda for user %d: %v", id, err)
			continue
		}
		if len(tasks) == 0 {
			continue
		}
		if err := b.sendText(id, renderTaskList(tasks)); err != nil {
			log.Printf("send agenda to %d: %v", id, err)
		}
	}
	return nil
}

// Broadcast sends one message to every known user, logging failures.
func (b *Bot) Broadcast(ctx context.Context, text string) error {
	ids, err := b.userRepo.AllIDs(ctx)
	if err != nil {
		return err
	}
	log.Printf("[info] broadcasting to %d user(s)", len(ids))
	for _, id := range ids {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := b.sendText(id, text); err != nil {
			log.Printf("broadcast to %d: %v", id, err)
		}
	}
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s", msg.From.ID, msg.Command())
		return b.handleCommand(ctx, msg)
	}

	text := strings.TrimSpace(msg.Text)
	switch text {
	case menuLabelAddTask:
		return b.sendText(msg.Chat.ID,
			"📝 Чтобы добавить задачу, напиши её вот так:\n\n"+
				"<code>Прочитать книгу / 18:00</code>\n"+
				"<code>Съесть лягушку / 19:30 / 17.07</code>\n"+
				"<code>Сходить в бассейн / 14:00 / 20.07 / #работа</code>\n\n"+
				"⏰ "+formatHint)
	case menuLabelToday:
		return b.handleTodayTasks(ctx, msg)
	case menuLabelDone:
		return b.handleCompleted(ctx, msg)
	case menuLabelWeek:
		return b.handleCompletedWeek(ctx, msg)
	case menuLabelProgress:
		return b.handleProgress(ctx, msg)
	case menuLabelProjects:
		return b.handleProjects(ctx, msg)
	}

	switch {
	case strings.HasPrefix(text, prefixCreateProject):
		return b.handleCreateProject(ctx, msg, strings.TrimSpace(strings.TrimPrefix(text, prefixCreateProject)))
	case strings.HasPrefix(text, prefixCompleteProject):
		return b.handleCompleteProject(ctx, msg, strings.TrimSpace(strings.TrimPrefix(text, prefixCompleteProject)))
	case strings.HasPrefix(text, prefixDeleteProject):
		return b.handleDeleteProject(ctx, msg, strings.TrimSpace(strings.TrimPrefix(text, prefixDeleteProject)))
	case parser.IsTaskDefinition(text):
		return b.handleCreateTask(ctx, msg, text)
	}

	return b.sendText(msg.Chat.ID, "Я пока не понял сообщение 🌱 Загляни в /help или добавь задачу:\n"+formatHint)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) error {
	switch msg.Command() {
	case "start":
		if err := b.ensureUser(ctx, msg.From.ID); err != nil {
			return b.replyError(msg.Chat.ID, err)
		}
		return b.sendText(msg.Chat.ID, "Привет, я Биби 🌱 Я помогу тебе организовать свои дела и выполнять их вовремя. Какие у тебя есть задачи?")
	case "help":
		return b.sendText(msg.Chat.ID,
			"🛠 <b>Команды и пояснения</b>\n\n"+
				"🌟 <b>Добавить задачу</b>\n"+formatHint+"\n\n"+
				"📋 <b>Мои задачи</b> — список задач на сегодня\n"+
				"🏁 <b>Выполненные</b> — завершённые задачи\n"+
				"🎯 <b>За неделю</b> — выполненное за 7 дней\n"+
				"📈 <b>Прогресс</b> — процент выполнения и дисциплина\n"+
				"📁 <b>Проекты</b> — группы задач\n\n"+
				"Проекты текстом:\n"+
				"<code>проект: Название</code>\n"+
				"<code>завершить проект Название</code>\n"+
				"<code>удалить проект Название</code>")
	default:
		return b.sendText(msg.Chat.ID, "Команда не поддерживается. Загляни в /help.")
	}
}

func (b *Bot) handleCreateTask(ctx context.Context, msg *tgbotapi.Message, text string) error {
	if err := b.ensureUser(ctx, msg.From.ID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	in, err := parser.Parse(text, time.Now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	task, linked, err := b.taskSvc.Create(ctx, msg.From.ID, in)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	log.Printf("[info] task created id=%d user=%d", task.ID, task.UserID)

	reply := fmt.Sprintf("📝 Задача «%s» добавлена на %s в %s",
		escape(task.Title), displayDate(task.Date), task.Time)
	if linked {
		reply += fmt.Sprintf(" в проект «%s»", escape(in.ProjectName))
	}
	return b.sendText(msg.Chat.ID, reply)
}

func (b *Bot) handleTodayTasks(ctx context.Context, msg *tgbotapi.Message) error {
	tasks, err := b.taskSvc.TasksForToday(ctx, msg.From.ID, time.Now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(tasks) == 0 {
		return b.sendText(msg.Chat.ID, "Сегодня всё свободно. Можно отдохнуть или сделать что-то по душе 🌼")
	}
	return b.sendText(msg.Chat.ID, renderTaskList(tasks))
}

func (b *Bot) handleCompleted(ctx context.Context, msg *tgbotapi.Message) error {
	rows, err := b.statsSvc.Completed(ctx, msg.From.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(rows) == 0 {
		return b.sendText(msg.Chat.ID, "Пока ничего не выполнено. Но это только начало 💪")
	}
	if len(rows) > 10 {
		rows = rows[:10]
	}
	var builder strings.Builder
	builder.WriteString("<b>Вот, что ты уже сделал(а):</b>\n\n")
	for _, row := range rows {
		builder.WriteString(fmt.Sprintf("✅ %s (%s)\n", escape(row.Title), row.Timestamp.Format("02.01 15:04")))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleCompletedWeek(ctx context.Context, msg *tgbotapi.Message) error {
	rows, err := b.statsSvc.CompletedLastWeek(ctx, msg.From.ID, time.Now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	if len(rows) == 0 {
		return b.sendText(msg.Chat.ID, "На этой неделе пока ничего не выполнено 🌱")
	}
	var builder strings.Builder
	builder.WriteString("<b>Выполненные задачи за неделю:</b>\n\n")
	for _, row := range rows {
		builder.WriteString(fmt.Sprintf("✅ %s (%s)\n", escape(row.Title), row.Timestamp.Format("02.01 15:04")))
	}
	return b.sendText(msg.Chat.ID, strings.TrimSpace(builder.String()))
}

func (b *Bot) handleProgress(ctx context.Context, msg *tgbotapi.Message) error {
	stats, err := b.statsSvc.UserStats(ctx, msg.From.ID, time.Now())
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	text := fmt.Sprintf(
		"<b>Твоя дисциплина 🌱</b>\n\n"+
			"✅ Выполнено задач: <b>%d</b>\n"+
			"❌ Пропущено: <b>%d</b>\n"+
			"📊 Дисциплина: <b>%d%%</b>\n\n"+
			"📅 Дней с выполнениями: <b>%d</b>\n"+
			"🔥 Подряд дней: <b>%d</b>\n\n"+
			"Отличный результат! Продолжай в том же духе!",
		stats.Done, stats.Missed, service.Percent(stats.Done, stats.Missed), stats.ActiveDays, stats.Streak)
	return b.sendText(msg.Chat.ID, text)
}

func (b *Bot) handleCreateProject(ctx context.Context, msg *tgbotapi.Message, title string) error {
	if title == "" {
		return b.sendText(msg.Chat.ID, "Напиши название нового проекта:\n<code>проект: Название</code>")
	}
	if err := b.ensureUser(ctx, msg.From.ID); err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	project, err := b.projectSvc.Create(ctx, msg.From.ID, title)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}
	log.Printf("[info] project created id=%d user=%d", project.ID, msg.From.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf(
		"Проект «%s» создан! Добавляй в него задачи: <code>Название / ЧЧ:ММ / ДД.ММ / #%s</code>",
		escape(title), escape(title)))
}

func (b *Bot) handleCompleteProject(ctx context.Context, msg *tgbotapi.Message, title string) error {
	if err := b.projectSvc.Complete(ctx, msg.From.ID, title, time.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return b.sendText(msg.Chat.ID, "⚠️ Проект не найден.")
		}
		return b.replyError(msg.Chat.ID, err)
	}
	return b.sendText(msg.Chat.ID, fmt.Sprintf("✅ Все задачи проекта «%s» помечены как выполненные.", escape(title)))
}

func (b *Bot) handleDeleteProject(ctx context.Context, msg *tgbotapi.Message, title string) error {
	if err := b.projectSvc.Delete(ctx, msg.From.ID, title); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return b.sendText(msg.Chat.ID, "⚠️ Проект не найден.")
		}
		return b.replyError(msg.Chat.ID, err)
	}
	log.Printf("[info] project %q deleted user=%d", title, msg.From.ID)
	return b.sendText(msg.Chat.ID, fmt.Sprintf("🗑 Проект «%s» и все его задачи удалены.", escape(title)))
}

func (b *Bot) handleProjects(ctx context.Context, msg *tgbotapi.Message) error {
	projects, err := b.projectSvc.ListWithProgress(ctx, msg.From.ID)
	if err != nil {
		return b.replyError(msg.Chat.ID, err)
	}

	if len(projects) == 0 {
		return b.sendText(msg.Chat.ID,
			"📁 Проекты — это группы задач.\n\n"+
				"➕ Чтобы создать новый проект, отправь сообщение:\n"+
				"<code>проект: Название</code>\n\n"+
				"📝 Чтобы добавить задачу в проект, укажи его хэштег:\n"+
				"<code>Сделать презентацию / 10:00 / 18.07 / #работа</code>\n\n"+
				"✅ Завершить: <code>завершить проект Название</code>\n"+
				"🗑 Удалить: <code>удалить проект Название</code>")
	}

	var buttons [][]tgbotapi.InlineKeyboardButton
	for _, p := range projects {
		label := fmt.Sprintf("%s (%d%%)", p.Title, service.ProgressPercent(p))
		buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, fmt.Sprintf("%s%d", cbProjectPrefix, p.ID)),
		))
	}
	buttons = append(buttons, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("➕ Новый проект", cbNewProject),
	))

	reply := tgbotapi.NewMessage(msg.Chat.ID, "<b>📁 Твои проекты:</b>\nНажми на проект, чтобы посмотреть задачи ⬇️")
	reply.ParseMode = tgbotapi.ModeHTML
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(buttons...)
	_, err = b.api.Send(reply)
	return err
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) error {
	if cb == nil || cb.From == nil || cb.Message == nil {
		return nil
	}
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, "")); err != nil {
		log.Printf("callback ack: %v", err)
	}

	chatID := cb.Message.Chat.ID
	data := cb.Data

	switch {
	case strings.HasPrefix(data, cbDonePrefix):
		taskID, err := parseTaskID(data, cbDonePrefix)
		if err != nil {
			return nil
		}
		task, err := b.taskSvc.Complete(ctx, taskID, time.Now())
		if err != nil {
			return b.replyError(chatID, err)
		}
		log.Printf("[info] task done id=%d user=%d", task.ID, task.UserID)
		return b.sendText(chatID, "Молодец! Задача отмечена как выполненная 💚")

	case strings.HasPrefix(data, cbMissedPrefix):
		taskID, err := parseTaskID(data, cbMissedPrefix)
		if err != nil {
			return nil
		}
		task, err := b.taskSvc.MarkMissed(ctx, taskID, time.Now())
		if err != nil {
			return b.replyError(chatID, err)
		}
		log.Printf("[info] task missed id=%d user=%d", task.ID, task.UserID)
		return b.sendText(chatID, "Окей, двигаемся дальше. Главное — не останавливаться ☁️")

	case strings.HasPrefix(data, cbLaterPrefix):
		taskID, err := parseTaskID(data, cbLaterPrefix)
		if err != nil {
			return nil
		}
		reply := tgbotapi.NewMessage(chatID, "На сколько хочешь отложить? ⏳")
		reply.ParseMode = tgbotapi.ModeHTML
		reply.ReplyMarkup = postponeKeyboard(taskID)
		_, err = b.api.Send(reply)
		return err

	case strings.HasPrefix(data, cbPostponePrefix):
		taskID, minutes, err := parsePostpone(data)
		if err != nil {
			return nil
		}
		newTime, err := b.taskSvc.Postpone(ctx, taskID, minutes, time.Now())
		if err != nil {
			return b.replyError(chatID, err)
		}
		return b.sendText(chatID, fmt.Sprintf("Окей, напомню позже в %s ⏰", newTime))

	case strings.HasPrefix(data, cbProjectPrefix):
		projectID, err := parseTaskID(data, cbProjectPrefix)
		if err != nil {
			return nil
		}
		return b.sendProjectTasks(ctx, chatID, projectID)

	case data == cbNewProject:
		return b.sendText(chatID, "Напиши название нового проекта:\n<code>проект: Название</code>")

	default:
		return nil
	}
}

func (b *Bot) sendProjectTasks(ctx context.Context, chatID int64, projectID uint) error {
	tasks, err := b.projectSvc.Tasks(ctx, projectID)
	if err != nil {
		return b.replyError(chatID, err)
	}
	if len(tasks) == 0 {
		return b.sendText(chatID, "В этом проекте пока нет задач.")
	}
	var builder strings.Builder
	builder.WriteString("<b>Задачи проекта:</b>\n\n")
	for _, task := range tasks {
		marker := "🔲"
		if task.Status == model.StatusDone {
			marker = "✅"
		}
		builder.WriteString(fmt.Sprintf("%s %s — %s %s\n", marker, escape(task.Title), displayDate(task.Date), task.Time))
	}
	return b.sendText(chatID, strings.TrimSpace(builder.String()))
}

func (b *Bot) ensureUser(ctx context.Context, userID int64) error {
	return b.userRepo.Ensure(ctx, userID)
}

// replyError maps domain errors onto user-facing messages; nothing here
// is allowed to kill the polling loop.
func (b *Bot) replyError(chatID int64, err error) error {
	switch {
	case errors.Is(err, parser.ErrInvalidFormat):
		return b.sendText(chatID, formatHint)
	case errors.Is(err, repository.ErrNotFound):
		return b.sendText(chatID, "⚠️ Не найдено. Возможно, это уже удалено.")
	default:
		log.Printf("storage error: %v", err)
		return b.sendText(chatID, "😔 Хранилище сейчас недоступно. Попробуй ещё раз чуть позже.")
	}
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func renderTaskList(tasks []model.Task) string {
	var builder strings.Builder
	builder.WriteString("<b>Твои задачи на сегодня:</b>\n\n")
	for _, task := range tasks {
		builder.WriteString(fmt.Sprintf("🕒 <b>%s</b> — %s\n", task.Time, escape(task.Title)))
	}
	return strings.TrimSpace(builder.String())
}

func taskButtons(taskID uint) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Сделано", fmt.Sprintf("%s%d", cbDonePrefix, taskID)),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🔁 Напомнить позже", fmt.Sprintf("%s%d", cbLaterPrefix, taskID)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Пропустить", fmt.Sprintf("%s%d", cbMissedPrefix, taskID)),
		),
	)
}

func postponeKeyboard(taskID uint) tgbotapi.InlineKeyboardMarkup {
	var row []tgbotapi.InlineKeyboardButton
	for _, choice := range []struct {
		label   string
		minutes int
	}{{"15 мин", 15}, {"30 мин", 30}, {"1 час", 60}} {
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(
			choice.label, fmt.Sprintf("%s%d:%d", cbPostponePrefix, taskID, choice.minutes)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelAddTask),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelToday),
			tgbotapi.NewKeyboardButton(menuLabelDone),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelProgress),
			tgbotapi.NewKeyboardButton(menuLabelProjects),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelWeek),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}

func parseTaskID(data, prefix string) (uint, error) {
	raw := strings.TrimPrefix(data, prefix)
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func parsePostpone(data string) (uint, int, error) {
	parts := strings.Split(strings.TrimPrefix(data, cbPostponePrefix), ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed postpone data %q", data)
	}
	taskID, err := strconv.ParseUint(parts[0], 10, 64)
	if err != nil {
		return 0, 0, err
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return uint(taskID), minutes, nil
}

func displayDate(stored string) string {
	day, err := time.Parse(model.DateLayout, stored)
	if err != nil {
		return stored
	}
	return day.Format(displayDateLayout)
}

func escape(s string) string {
	return html.EscapeString(s)
}
