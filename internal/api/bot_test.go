package telegram

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	"vehicle-inspector/internal/container"
	"vehicle-inspector/internal/domain/entity"
	"vehicle-inspector/internal/domain/port"
	"vehicle-inspector/internal/infrastructure/describer"
	"vehicle-inspector/internal/infrastructure/storage"
	"vehicle-inspector/internal/infrastructure/vision"
)

type recordingSender struct {
	texts  []string
	photos int
}

func (s *recordingSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	switch m := c.(type) {
	case tgbotapi.MessageConfig:
		s.texts = append(s.texts, m.Text)
	case tgbotapi.PhotoConfig:
		s.photos++
	}
	return tgbotapi.Message{}, nil
}

type stubDetector struct {
	detections []entity.Detection
}

func (d stubDetector) Ready() error { return nil }

func (d stubDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Detection, error) {
	return d.detections, nil
}

type stubEstimator struct{}

func (stubEstimator) Estimate(ctx context.Context, imageData []byte) entity.CleanlinessReading {
	return entity.NewCleanlinessReading(40)
}

type stubAnnotator struct{}

func (stubAnnotator) Annotate(imageData []byte, damages []entity.DamageFinding) ([]byte, error) {
	return []byte("jpeg"), nil
}

func newTestBot(detector port.DamageDetector) (*Bot, *recordingSender) {
	s := &recordingSender{}
	c := container.New(container.Deps{
		Users:     storage.NewMemoryUserRepository(),
		Detector:  detector,
		Estimator: stubEstimator{},
		Annotator: stubAnnotator{},
		Describer: describer.NewTemplateDescriber(),
	})
	return &Bot{
		sender:   s,
		download: func(context.Context, string) ([]byte, error) { return []byte("photo"), nil },
		app:      c,
	}, s
}

func command(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		Text:     text,
		From:     &tgbotapi.User{ID: 1},
		Chat:     &tgbotapi.Chat{ID: 10},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(text)}},
	}
}

func photoMessage() *tgbotapi.Message {
	return &tgbotapi.Message{
		From:  &tgbotapi.User{ID: 1},
		Chat:  &tgbotapi.Chat{ID: 10},
		Photo: []tgbotapi.PhotoSize{{FileID: "small", FileUniqueID: "s"}, {FileID: "big", FileUniqueID: "b"}},
	}
}

func TestBot_Commands(t *testing.T) {
	bot, sent := newTestBot(stubDetector{})
	ctx := context.Background()

	bot.handleMessage(ctx, command("/start"))
	bot.handleMessage(ctx, command("/check"))
	bot.handleMessage(ctx, command("/last"))
	bot.handleMessage(ctx, command("/unknown"))
	bot.handleMessage(ctx, &tgbotapi.Message{Text: "hi", From: &tgbotapi.User{ID: 1}, Chat: &tgbotapi.Chat{ID: 10}})

	require.Equal(t, []string{msgStart, msgAwaitingPhoto, msgNoLastCheck, msgUnknownCommand, msgSendPhoto}, sent.texts)

	user, err := bot.app.UserService.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, user.State)
}

func TestBot_PhotoWithDamages(t *testing.T) {
	bot, sent := newTestBot(stubDetector{detections: []entity.Detection{
		{ClassName: "dent_front", Confidence: 0.8, BBox: entity.BBox{X2: 10, Y2: 10}},
	}})
	ctx := context.Background()

	var downloaded string
	bot.download = func(_ context.Context, fileID string) ([]byte, error) {
		downloaded = fileID
		return []byte("photo"), nil
	}

	bot.handleMessage(ctx, photoMessage())

	require.Equal(t, "big", downloaded)
	require.Len(t, sent.texts, 2)
	require.Equal(t, msgProcessing, sent.texts[0])
	require.Contains(t, sent.texts[1], "Обнаружены незначительные дефекты.")
	require.Equal(t, 1, sent.photos)

	user, err := bot.app.UserService.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
	require.Equal(t, 85, user.LastAssessment.QualityScore)

	bot.handleMessage(ctx, command("/last"))
	require.Contains(t, sent.texts[len(sent.texts)-1], "Оценка качества: 85/100")
}

func TestBot_ModelUnavailable(t *testing.T) {
	bot, sent := newTestBot(vision.NewUnavailableDetector(errors.New("missing weights")))

	bot.handleMessage(context.Background(), photoMessage())

	require.Equal(t, []string{msgProcessing, msgModelUnavailable}, sent.texts)
	require.Zero(t, sent.photos)
}

func TestBot_Documents(t *testing.T) {
	bot, sent := newTestBot(stubDetector{})
	ctx := context.Background()

	bot.handleMessage(ctx, &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 1},
		Chat:     &tgbotapi.Chat{ID: 10},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "report.pdf", MimeType: "application/pdf"},
	})
	require.Equal(t, []string{msgNotAnImage}, sent.texts)

	bot.handleMessage(ctx, &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 1},
		Chat:     &tgbotapi.Chat{ID: 10},
		Document: &tgbotapi.Document{FileID: "doc"},
	})
	require.Equal(t, msgNoFile, sent.texts[len(sent.texts)-1])

	bot.handleMessage(ctx, &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 1},
		Chat:     &tgbotapi.Chat{ID: 10},
		Document: &tgbotapi.Document{FileID: "doc", FileName: "car.png", MimeType: "image/png"},
	})
	require.Contains(t, sent.texts[len(sent.texts)-1], "Автомобиль в отличном состоянии.")
}

func TestBot_DownloadFailure(t *testing.T) {
	bot, sent := newTestBot(stubDetector{})
	bot.download = func(context.Context, string) ([]byte, error) { return nil, errors.New("telegram is down") }

	bot.handleMessage(context.Background(), photoMessage())

	require.Len(t, sent.texts, 2)
	require.Contains(t, sent.texts[1], "Ошибка при обработке изображения")
}

func TestFetchFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_, _ = w.Write([]byte("photo"))
		case "/slow":
			select {
			case <-r.Context().Done():
			case <-time.After(5 * time.Second):
			}
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	data, err := fetchFile(context.Background(), srv.Client(), srv.URL+"/ok")
	require.NoError(t, err)
	require.Equal(t, []byte("photo"), data)

	_, err = fetchFile(context.Background(), srv.Client(), srv.URL+"/missing")
	require.ErrorContains(t, err, "unexpected status")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	started := time.Now()
	_, err = fetchFile(ctx, srv.Client(), srv.URL+"/slow")
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(started), 2*time.Second)

	client := &http.Client{Timeout: 50 * time.Millisecond}
	_, err = fetchFile(context.Background(), client, srv.URL+"/slow")
	require.Error(t, err)
}
