package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"

	"github.com/yourusername/drivetest-api/internal/service"
	"github.com/yourusername/drivetest-api/pkg/auth"
)

// WSHandler обрабатывает WebSocket соединения таймера экзамена
type WSHandler struct {
	quizService *service.QuizService
	jwtService  *auth.JWTService
}

// NewWSHandler создает новый обработчик WebSocket
func NewWSHandler(quizService *service.QuizService, jwtService *auth.JWTService) *WSHandler {
	return &WSHandler{
		quizService: quizService,
		jwtService:  jwtService,
	}
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")

		// Пустой Origin - не браузерный клиент (мобильное приложение, curl)
		if origin == "" {
			return true
		}

		// Список разрешенных origin (синхронизирован с CORS в main.go)
		allowedOrigins := []string{
			"http://localhost:5173",
			"http://localhost:3000",
		}
		for _, allowed := range allowedOrigins {
			if origin == allowed {
				return true
			}
		}

		log.Printf("WebSocket: rejected unauthorized origin: %s", origin)
		return false
	},
}

// timerTick представляет одно сообщение таймера
type timerTick struct {
	Type          string `json:"type"`
	TimeRemaining int    `json:"time_remaining"`
	Finished      bool   `json:"finished"`
}

// HandleTimer поднимает WebSocket соединение и ведет по нему секундный
// таймер активной сессии. Токен передается в query-параметре, так как
// браузерный WebSocket API не поддерживает заголовки.
func (h *WSHandler) HandleTimer(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "token query parameter is required"})
		return
	}

	claims, err := h.jwtService.ParseToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
		return
	}
	userID := claims.UserID

	session, err := h.quizService.GetSession(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "активная сессия не найдена"})
		return
	}

	// Один таймер на сессию: второе соединение отклоняется
	if !session.ClaimTimer() {
		c.JSON(http.StatusConflict, gin.H{"success": false, "error": "таймер сессии уже запущен"})
		return
	}
	defer session.ReleaseTimer()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket: upgrade failed for user=%d: %v", userID, err)
		return
	}
	defer conn.Close()

	log.Printf("WebSocket: timer started for user=%d", userID)

	// Читающая горутина нужна только чтобы заметить закрытие соединения клиентом
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			log.Printf("WebSocket: timer connection closed by user=%d", userID)
			return
		case <-ticker.C:
			remaining, finished, err := h.quizService.Tick(userID)
			if err != nil {
				// Сессия завершена или отменена другим запросом
				conn.WriteMessage(gorillaws.CloseMessage,
					gorillaws.FormatCloseMessage(gorillaws.CloseNormalClosure, "session ended"))
				return
			}

			tick := timerTick{Type: "timer", TimeRemaining: remaining, Finished: finished}
			if err := conn.WriteJSON(tick); err != nil {
				log.Printf("WebSocket: write failed for user=%d: %v", userID, err)
				return
			}
			if finished {
				log.Printf("WebSocket: session finished by timer for user=%d", userID)
				conn.WriteMessage(gorillaws.CloseMessage,
					gorillaws.FormatCloseMessage(gorillaws.CloseNormalClosure, "time expired"))
				return
			}
		}
	}
}
