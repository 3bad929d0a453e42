package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erlandi/tempmail-backend/internal/models"
	"github.com/erlandi/tempmail-backend/internal/repository"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// MessageHandlerTestSuite is the test suite for MessageHandler
type MessageHandlerTestSuite struct {
	suite.Suite
	echo            *echo.Echo
	handler         *MessageHandler
	mockMessageRepo *MockMessageRepository
}

// SetupTest runs before each test
func (s *MessageHandlerTestSuite) SetupTest() {
	s.echo = echo.New()
	s.mockMessageRepo = new(MockMessageRepository)
	s.handler = NewMessageHandler(s.mockMessageRepo)
}

// TearDownTest runs after each test
func (s *MessageHandlerTestSuite) TearDownTest() {
	s.mockMessageRepo.AssertExpectations(s.T())
}

// TestMessageHandlerTestSuite runs the test suite
func TestMessageHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(MessageHandlerTestSuite))
}

// Helper function to create a test context
func (s *MessageHandlerTestSuite) createContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, path, strings.NewReader(""))
	rec := httptest.NewRecorder()
	c := s.echo.NewContext(req, rec)
	return c, rec
}

// ==================== Get Tests ====================

func (s *MessageHandlerTestSuite) TestGet_Success() {
	// Arrange
	message := &models.Message{
		ID:         "550e8400-e29b-41d4-a716-446655440000",
		InboxID:    "tok_owner_000000001",
		MailFrom:   "sender@example.com",
		RcptTo:     "tmp-abc12345@mail.test",
		Subject:    "Full Message",
		ReceivedAt: 1500,
		TextBody:   "plain body",
		HTMLBody:   "<p>html body</p>",
	}

	s.mockMessageRepo.On("GetByID", mock.Anything, message.ID).Return(message, nil)

	c, rec := s.createContext(http.MethodGet, "/api/message/"+message.ID)
	c.SetParamNames("id")
	c.SetParamValues(message.ID)

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("no-store", rec.Header().Get("Cache-Control"))

	var resp models.Message
	s.NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Full Message", resp.Subject)
	s.Equal("plain body", resp.TextBody)
	s.Equal("<p>html body</p>", resp.HTMLBody)
}

func (s *MessageHandlerTestSuite) TestGet_DedupKeyNotSerialized() {
	// The dedup fingerprint is internal and must not leak into responses
	message := &models.Message{
		ID:         "550e8400-e29b-41d4-a716-446655440001",
		InboxID:    "tok_owner_000000002",
		DedupKey:   "secret_fingerprint",
		MailFrom:   "sender@example.com",
		RcptTo:     "tmp-abc12345@mail.test",
		Subject:    "Hidden Fields",
		ReceivedAt: 1500,
	}

	s.mockMessageRepo.On("GetByID", mock.Anything, message.ID).Return(message, nil)

	c, rec := s.createContext(http.MethodGet, "/api/message/"+message.ID)
	c.SetParamNames("id")
	c.SetParamValues(message.ID)

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusOK, rec.Code)
	s.NotContains(rec.Body.String(), "secret_fingerprint")
}

func (s *MessageHandlerTestSuite) TestGet_NotFound_Returns404() {
	// Arrange
	s.mockMessageRepo.On("GetByID", mock.Anything, "msg_missing_0000001").
		Return(nil, repository.ErrNotFound)

	c, rec := s.createContext(http.MethodGet, "/api/message/msg_missing_0000001")
	c.SetParamNames("id")
	c.SetParamValues("msg_missing_0000001")

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "Message not found")
}

func (s *MessageHandlerTestSuite) TestGet_MalformedID_Returns404() {
	// Malformed ids are indistinguishable from missing ones and skip the store
	c, rec := s.createContext(http.MethodGet, "/api/message/bad!")
	c.SetParamNames("id")
	c.SetParamValues("bad!")

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Contains(rec.Body.String(), "Message not found")
	s.mockMessageRepo.AssertNotCalled(s.T(), "GetByID")
}

func (s *MessageHandlerTestSuite) TestGet_StoreFailure_Returns500() {
	// Arrange
	s.mockMessageRepo.On("GetByID", mock.Anything, "msg_store_error_001").
		Return(nil, errors.New("connection reset"))

	c, rec := s.createContext(http.MethodGet, "/api/message/msg_store_error_001")
	c.SetParamNames("id")
	c.SetParamValues("msg_store_error_001")

	// Act
	err := s.handler.Get(c)

	// Assert
	s.NoError(err)
	s.Equal(http.StatusInternalServerError, rec.Code)
}
