package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "vehicle-inspector/internal/application"
	"vehicle-inspector/internal/container"
	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/pkg/log"
)

const (
	msgStart = `👋 Привет! Я бот для оценки состояния автомобиля по фотографии.

📸 Отправьте мне фото машины, и я проверю кузов на повреждения и оценю, нужна ли мойка.

📋 Команды:
/check — начать проверку автомобиля
/last — результат последней проверки
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Отправьте фото автомобиля (как фото или как файл)
2️⃣ Бот найдёт повреждения и оценит загрязнённость
3️⃣ Вы получите вердикт, оценку качества и фото с подсветкой повреждений

💡 Рекомендации:
• Снимайте при хорошем освещении
• В кадре должен быть весь автомобиль или проверяемая сторона
• Фото должно быть чётким

📋 Команды:
/check — начать проверку
/last — последняя проверка
/cancel — отменить операцию`

	msgAwaitingPhoto    = "📸 Отправьте фото автомобиля для проверки."
	msgCancelled        = "❌ Операция отменена. Отправьте /check для новой проверки."
	msgSendPhoto        = "📸 Пожалуйста, отправьте фото автомобиля для проверки."
	msgUnknownCommand   = "❓ Неизвестная команда. Используйте /help для справки."
	msgProcessing       = "⏳ Обрабатываю изображение..."
	msgNoLastCheck      = "Вы ещё не проверяли автомобиль. Отправьте фото."
	msgNotAnImage       = "📎 Этот файл не похож на изображение. Отправьте фото автомобиля."
	msgNoFile           = "⚠️ Файл не был выбран. Отправьте фото автомобиля."
	msgModelUnavailable = "🛠 Модель не загружена. Попробуйте позже."
	msgProcessingError  = "⚠️ Ошибка при обработке изображения. Попробуйте сделать другое фото. Код: %s"
)

// downloadTimeout ограничивает скачивание одного файла из Telegram
const downloadTimeout = 30 * time.Second

// sender часть BotAPI, через которую бот отвечает пользователю
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot представляет Telegram-бота
type Bot struct {
	api      *tgbotapi.BotAPI
	sender   sender
	client   *http.Client
	download func(ctx context.Context, fileID string) ([]byte, error)
	app      *container.Container
}

// NewBot создаёт нового бота
func NewBot(token string, appContainer *container.Container) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log.Info(log.Fields{"account": api.Self.UserName}, "authorized on telegram")

	b := &Bot{
		api:    api,
		sender: api,
		client: &http.Client{Timeout: downloadTimeout},
		app:    appContainer,
	}
	b.download = b.downloadFile
	return b, nil
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	if len(msg.Photo) > 0 {
		// Берём фото с максимальным разрешением
		photo := msg.Photo[len(msg.Photo)-1]
		b.handlePhoto(ctx, msg, photo.FileID, photo.FileUniqueID+".jpg")
		return
	}

	if msg.Document != nil {
		if msg.Document.FileName != "" && !strings.HasPrefix(msg.Document.MimeType, "image/") {
			b.sendMessage(msg.Chat.ID, msgNotAnImage)
			return
		}
		b.handlePhoto(ctx, msg, msg.Document.FileID, msg.Document.FileName)
		return
	}

	// Текстовое сообщение (не команда)
	b.sendMessage(msg.Chat.ID, msgSendPhoto)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	users := b.app.UserService
	userID, chatID := msg.From.ID, msg.Chat.ID

	var err error
	switch msg.Command() {
	case "start":
		_, err = users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "check":
		_, err = users.BeginCheck(ctx, userID, chatID)
		b.sendMessage(chatID, msgAwaitingPhoto)

	case "cancel":
		_, err = users.Cancel(ctx, userID, chatID)
		b.sendMessage(chatID, msgCancelled)

	case "last":
		b.handleLast(ctx, userID, chatID)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}

	if err != nil {
		log.Error(log.Fields{"user_id": userID, "error": err.Error()}, "failed to update user state")
	}
}

func (b *Bot) handleLast(ctx context.Context, userID, chatID int64) {
	last, err := b.app.UserService.LastAssessment(ctx, userID, chatID)
	if err != nil {
		log.Error(log.Fields{"user_id": userID, "error": err.Error()}, "failed to load last assessment")
		b.sendMessage(chatID, fmt.Sprintf(msgProcessingError, "-"))
		return
	}
	if last == nil {
		b.sendMessage(chatID, msgNoLastCheck)
		return
	}
	b.sendMessage(chatID, b.render(ctx, last, nil))
}

// handlePhoto скачивает изображение, проверяет его и отвечает вердиктом
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, fileID, fileName string) {
	users := b.app.UserService
	userID, chatID := msg.From.ID, msg.Chat.ID

	if _, err := users.StartProcessing(ctx, userID, chatID); err != nil {
		log.Error(log.Fields{"user_id": userID, "error": err.Error()}, "failed to update user state")
	}
	b.sendMessage(chatID, msgProcessing)

	var assessment *entity.Assessment
	defer func() {
		if _, err := users.FinishCheck(ctx, userID, chatID, assessment); err != nil {
			log.Error(log.Fields{"user_id": userID, "error": err.Error()}, "failed to finish check")
		}
	}()

	imageData, err := b.download(ctx, fileID)
	if err != nil {
		traceID := log.ErrorWithTraceID(log.Fields{"user_id": userID, "error": err.Error()}, "failed to download photo")
		b.sendMessage(chatID, fmt.Sprintf(msgProcessingError, traceID))
		return
	}

	out, err := b.app.InspectionService.Inspect(ctx, app.Photo{FileName: fileName, Data: imageData})
	if err != nil {
		b.sendMessage(chatID, b.errorMessage(userID, err))
		return
	}
	assessment = out.Assessment

	b.sendMessage(chatID, b.render(ctx, out.Assessment, out.Description))

	if len(out.Highlighted) > 0 {
		photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "damages.jpg", Bytes: out.Highlighted})
		photo.Caption = "Найденные повреждения"
		if _, err := b.sender.Send(photo); err != nil {
			log.Error(log.Fields{"chat_id": chatID, "error": err.Error()}, "failed to send highlighted photo")
		}
	}
}

// errorMessage переводит ошибку сервиса в текст для пользователя
func (b *Bot) errorMessage(userID int64, err error) string {
	switch {
	case errors.Is(err, app.ErrModelUnavailable):
		log.Error(log.Fields{"user_id": userID, "error": err.Error()}, "model unavailable")
		return msgModelUnavailable
	case errors.Is(err, app.ErrInputMissing):
		log.Warn(log.Fields{"user_id": userID}, "empty upload")
		return msgNoFile
	default:
		traceID := log.ErrorWithTraceID(log.Fields{"user_id": userID, "error": err.Error()}, "inspection failed")
		return fmt.Sprintf(msgProcessingError, traceID)
	}
}

func (b *Bot) render(ctx context.Context, a *entity.Assessment, desc *entity.Description) string {
	if desc == nil && b.app.Describer != nil {
		var err error
		if desc, err = b.app.Describer.Describe(ctx, a); err != nil {
			log.Warn(log.Fields{"error": err.Error()}, "failed to describe assessment")
		}
	}
	if desc != nil {
		return desc.Text
	}
	return fmt.Sprintf("%s (%d/100)", a.SummaryText, a.QualityScore)
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	return fetchFile(ctx, b.client, file.Link(b.api.Token))
}

func fetchFile(ctx context.Context, client *http.Client, fileURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fileURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.sender.Send(msg); err != nil {
		log.Error(log.Fields{"chat_id": chatID, "error": err.Error()}, "failed to send message")
	}
}
