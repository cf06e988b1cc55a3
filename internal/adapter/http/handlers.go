package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xrexb2b/payflow-backend/internal/adapter/dto"
	"github.com/xrexb2b/payflow-backend/internal/domain"
	"github.com/xrexb2b/payflow-backend/internal/usecase/progression"
)

func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, dto.ErrorResponse{Error: message})
}

// writeError maps domain errors to HTTP statuses
func writeError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var reviewErr *domain.ReviewError

	switch {
	case errors.As(err, &reviewErr):
		failure := dto.NewReviewFailure(reviewErr.Scenario)
		c.JSON(http.StatusBadGateway, dto.ErrorResponse{Error: reviewErr.Error(), Review: &failure})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusUnprocessableEntity, dto.ErrorResponse{Error: err.Error(), Fields: validationErr.Fields})
	case errors.Is(err, domain.ErrInvalidAmount), errors.Is(err, domain.ErrUnsupportedCurrency):
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrReceiptNotFound):
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrTransitionNotAllowed):
		c.JSON(http.StatusConflict, dto.ErrorResponse{Error: err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
	}
}

// bindJSON decodes the body into v; an empty body leaves v at its zero value
func bindJSON(c *gin.Context, v interface{}) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleQuote(c *gin.Context) {
	var req dto.QuoteRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		writeError(c, err)
		return
	}

	summary, err := s.QuoteService.Quote(input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(summary))
}

func (s *Server) handleGetState(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewStateResponse(s.Machine.Get()))
}

func (s *Server) handleSetState(c *gin.Context) {
	var req dto.SetStateRequest
	if !bindJSON(c, &req) {
		return
	}

	var opts []progression.SetOption
	if req.Force {
		opts = append(opts, progression.WithForce())
	}

	state := s.Machine.SetRaw(c.Request.Context(), req.RawState(), opts...)
	c.JSON(http.StatusOK, dto.NewStateResponse(state))
}

func (s *Server) handleChangeState(c *gin.Context) {
	var req dto.ChangeStateRequest
	if !bindJSON(c, &req) {
		return
	}

	state := s.Machine.Change(c.Request.Context(), req.Delta)
	c.JSON(http.StatusOK, dto.NewStateResponse(state))
}

// handleStateEvents streams state changes as server-sent events named "state"
func (s *Server) handleStateEvents(c *gin.Context) {
	ctx := c.Request.Context()
	changes := s.Broadcaster.Watch(ctx)

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Stream(func(w io.Writer) bool {
		select {
		case change, ok := <-changes:
			if !ok {
				return false
			}
			c.SSEvent("state", dto.NewStateChangeResponse(change))
			return true
		case <-ctx.Done():
			return false
		}
	})
}

func (s *Server) handleSubmitBankApplication(c *gin.Context) {
	state := s.CounterpartyService.SubmitBankApplication(c.Request.Context())
	c.JSON(http.StatusOK, dto.NewStateResponse(state))
}

func (s *Server) handleVerifyCounterparty(c *gin.Context) {
	state, err := s.CounterpartyService.VerifyCounterparty(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStateResponse(state))
}

func (s *Server) handleSubmitPayment(c *gin.Context) {
	var req dto.SubmitPaymentRequest
	if !bindJSON(c, &req) {
		return
	}

	input, err := req.ToInput()
	if err != nil {
		writeError(c, err)
		return
	}

	receipt, err := s.PaymentService.Submit(c.Request.Context(), sessionID(c), input)
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.SubmitPaymentResponse{
		Receipt: dto.NewReceiptResponse(receipt),
		State:   dto.NewStateResponse(s.Machine.Get()),
	})
}

func (s *Server) handleConfirmPayment(c *gin.Context) {
	state, err := s.PaymentService.ConfirmSent(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewStateResponse(state))
}

func (s *Server) handleGetReceipt(c *gin.Context) {
	receipt, err := s.PaymentService.GetReceipt(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewReceiptResponse(receipt))
}

func (s *Server) handleListTransactions(c *gin.Context) {
	rows, err := s.PaymentService.ListTransactions(c.Request.Context(), sessionID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewTransactionsResponse(rows))
}
