package http

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"github.com/xrexb2b/payflow-backend/internal/usecase/counterparty"
	"github.com/xrexb2b/payflow-backend/internal/usecase/payment"
	"github.com/xrexb2b/payflow-backend/internal/usecase/progression"
	"github.com/xrexb2b/payflow-backend/internal/usecase/quote"
)

// SessionHeader carries the browser session a receipt belongs to
const SessionHeader = "X-Session-ID"

// DefaultSessionID is used when a request carries no session
const DefaultSessionID = "default"

// Server is the JSON API used by the browser prototype
type Server struct {
	QuoteService        *quote.QuoteService
	CounterpartyService *counterparty.CounterpartyService
	PaymentService      *payment.PaymentService
	Machine             *progression.Machine
	Broadcaster         *progression.Broadcaster

	token          string
	allowedOrigins []string
	logger         *log.Logger
	router         *gin.Engine
}

// NewServer creates the API and registers its routes
func NewServer(
	quoteService *quote.QuoteService,
	counterpartyService *counterparty.CounterpartyService,
	paymentService *payment.PaymentService,
	machine *progression.Machine,
	broadcaster *progression.Broadcaster,
	token string,
	allowedOrigins []string,
	logger *log.Logger,
) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		QuoteService:        quoteService,
		CounterpartyService: counterpartyService,
		PaymentService:      paymentService,
		Machine:             machine,
		Broadcaster:         broadcaster,
		token:               token,
		allowedOrigins:      allowedOrigins,
		logger:              logger,
		router:              gin.New(),
	}
	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(gin.Recovery(), s.requestLogger())

	s.router.GET("/healthz", s.handleHealth)

	api := s.router.Group("/api/v1")
	api.Use(s.authMiddleware())
	{
		api.POST("/fees/quote", s.handleQuote)

		api.GET("/prototype-state", s.handleGetState)
		api.PUT("/prototype-state", s.handleSetState)
		api.POST("/prototype-state/change", s.handleChangeState)
		api.GET("/prototype-state/events", s.handleStateEvents)

		api.POST("/counterparty/application", s.handleSubmitBankApplication)
		api.POST("/counterparty/verify", s.handleVerifyCounterparty)

		api.POST("/payments", s.handleSubmitPayment)
		api.POST("/payments/confirm", s.handleConfirmPayment)
		api.GET("/receipt", s.handleGetReceipt)
		api.GET("/transactions", s.handleListTransactions)
	}
}

// Handler returns the router wrapped with CORS handling
func (s *Server) Handler() http.Handler {
	origins := s.allowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	// Bearer tokens are sent explicitly, so credentials stay disabled for wildcard origins
	corsOptions := cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders:   []string{"Authorization", "Content-Type", SessionHeader},
		AllowCredentials: false,
	}

	return cors.New(corsOptions).Handler(s.router)
}

func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			abortWithError(c, http.StatusUnauthorized, "missing authorization header")
			return
		}

		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token != s.token {
			abortWithError(c, http.StatusUnauthorized, "invalid token")
			return
		}

		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Printf("[HTTP] %s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

func sessionID(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return id
	}
	return DefaultSessionID
}
