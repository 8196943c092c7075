package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/tour_ledger/internal/apperrors"
	"github.com/SscSPs/tour_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/tour_ledger/internal/core/ports/services"
	"github.com/SscSPs/tour_ledger/internal/dto"
	"github.com/SscSPs/tour_ledger/internal/handlers"
	"github.com/SscSPs/tour_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Test Suite ---
type HandlerTestSuite struct {
	suite.Suite
	router           *gin.Engine
	jwtSecret        string
	mockProfile      *MockProfileService
	mockConfirmation *MockConfirmationService
	mockBooking      *MockBookingService
	mockImport       *MockImportService
	mockExport       *MockExportService
}

// generateTestToken creates a dummy JWT for testing.
func (suite *HandlerTestSuite) generateTestToken(userID string) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "tour-ledger-test",
		Subject:   userID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *HandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough"

	suite.mockProfile = new(MockProfileService)
	suite.mockConfirmation = new(MockConfirmationService)
	suite.mockBooking = new(MockBookingService)
	suite.mockImport = new(MockImportService)
	suite.mockExport = new(MockExportService)

	cfg := &config.Config{JWTSecret: suite.jwtSecret, IsProduction: true}
	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		Profile:      suite.mockProfile,
		Confirmation: suite.mockConfirmation,
		Booking:      suite.mockBooking,
		Import:       suite.mockImport,
		Export:       suite.mockExport,
	}, nil, nil)
}

func (suite *HandlerTestSuite) TearDownTest() {
	suite.mockProfile.AssertExpectations(suite.T())
	suite.mockConfirmation.AssertExpectations(suite.T())
	suite.mockBooking.AssertExpectations(suite.T())
	suite.mockImport.AssertExpectations(suite.T())
	suite.mockExport.AssertExpectations(suite.T())
}

// asRole makes userID resolve to role with no view-as header.
func (suite *HandlerTestSuite) asRole(userID string, role domain.Role) domain.Actor {
	actor := domain.Actor{UserID: userID, Role: role, EffectiveRole: role}
	suite.mockProfile.On("ResolveActor", mock.Anything, userID, "").Return(actor, nil).Once()
	return actor
}

func (suite *HandlerTestSuite) do(req *http.Request, userID string) *httptest.ResponseRecorder {
	if userID != "" {
		req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID))
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) string {
	var body dto.ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body.Error
}

// --- Test Cases ---

func (suite *HandlerTestSuite) TestHealth() {
	req, _ := http.NewRequest(http.MethodGet, "/health", nil)
	w := suite.do(req, "")
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *HandlerTestSuite) TestMissingToken() {
	req, _ := http.NewRequest(http.MethodGet, "/api/v1/confirmations", nil)
	w := suite.do(req, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Authorization header required", decodeError(w))
}

func (suite *HandlerTestSuite) TestTokenSignedWithOtherSecret() {
	other := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := other.SignedString([]byte("not-the-secret"))
	suite.Require().NoError(err)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/confirmations", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	w := suite.do(req, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestListConfirmations_Success() {
	actor := suite.asRole("user-1", domain.RoleWorker)
	expected := []domain.Confirmation{{ID: "c1", ConfirmationCode: "SG-0001", MainClientName: "Nino"}}
	suite.mockConfirmation.On("ListConfirmations", mock.Anything, actor, mock.MatchedBy(func(p dto.ListConfirmationsParams) bool {
		return p.Search == "nino" && p.From == "01/06/2025" && p.Limit == 200
	})).Return(expected, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/confirmations?search=nino&from=01/06/2025", nil)
	w := suite.do(req, "user-1")

	suite.Equal(http.StatusOK, w.Code)
	var got []domain.Confirmation
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Require().Len(got, 1)
	suite.Equal("SG-0001", got[0].ConfirmationCode)
}

func (suite *HandlerTestSuite) TestViewAs_RejectedForNonAdmin() {
	suite.mockProfile.On("ResolveActor", mock.Anything, "user-2", "admin").
		Return(domain.Actor{}, fmt.Errorf("%w: only admins can switch roles", apperrors.ErrForbidden)).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/confirmations", nil)
	req.Header.Set("X-View-As", "admin")
	w := suite.do(req, "user-2")

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestProfileLookupNotFound_IsForbidden() {
	suite.mockProfile.On("ResolveActor", mock.Anything, "stranger", "").
		Return(domain.Actor{}, apperrors.NewNotFoundError("profile not found")).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/confirmations", nil)
	w := suite.do(req, "stranger")

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("No back-office profile for this user", decodeError(w))
}

func (suite *HandlerTestSuite) TestGetConfirmation_NotFound() {
	actor := suite.asRole("user-1", domain.RoleAdmin)
	suite.mockConfirmation.On("GetConfirmation", mock.Anything, actor, "missing").
		Return(nil, apperrors.NewNotFoundError("confirmation not found")).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/confirmations/missing", nil)
	w := suite.do(req, "user-1")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("confirmation not found", decodeError(w))
}

func (suite *HandlerTestSuite) TestToggleClientPaid_ForbiddenFromService() {
	actor := suite.asRole("user-1", domain.RoleWorker)
	paid := true
	req := dto.ToggleClientPaidRequest{ClientPaid: &paid}
	suite.mockConfirmation.On("ToggleClientPaid", mock.Anything, actor, "c1", mock.Anything).
		Return(nil, apperrors.NewForbiddenError("worker cannot toggle client payment")).Once()

	body, _ := json.Marshal(req)
	httpReq, _ := http.NewRequest(http.MethodPost, "/api/v1/confirmations/c1/client-paid", bytes.NewReader(body))
	httpReq.Header.Set("Content-Type", "application/json")
	w := suite.do(httpReq, "user-1")

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *HandlerTestSuite) TestUpdateNotes_BadJSON() {
	suite.asRole("user-1", domain.RoleAdmin)

	req, _ := http.NewRequest(http.MethodPatch, "/api/v1/confirmations/c1/notes", strings.NewReader("{bad"))
	req.Header.Set("Content-Type", "application/json")
	w := suite.do(req, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Contains(decodeError(w), "Invalid request format")
}

func (suite *HandlerTestSuite) TestCreateBookingRequest_QueueFailureReturnsResult() {
	actor := suite.asRole("user-1", domain.RoleWorker)
	resp := &dto.BookingRequestResponse{
		Confirmation: domain.Confirmation{ID: "c9", ConfirmationCode: "SG-0009"},
		Emails:       []domain.HotelEmail{},
	}
	suite.mockBooking.On("CreateBookingRequest", mock.Anything, actor, mock.Anything).
		Return(resp, apperrors.NewAppError(http.StatusBadGateway, "Booking e-mails could not be queued", errors.New("redis down"))).Once()

	payload := `{"confirmation":{"mainClientName":"Nino","arrivalDate":"10/06/2025","price":1200},"emails":[]}`
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/booking-requests", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := suite.do(req, "user-1")

	suite.Equal(http.StatusBadGateway, w.Code)
	var body struct {
		Error  string                     `json:"error"`
		Result dto.BookingRequestResponse `json:"result"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &body))
	suite.Equal("Booking e-mails could not be queued", body.Error)
	suite.Equal("SG-0009", body.Result.Confirmation.ConfirmationCode)
}

func (suite *HandlerTestSuite) TestCreateBookingRequest_MissingClientName() {
	suite.asRole("user-1", domain.RoleWorker)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/booking-requests", strings.NewReader(`{"confirmation":{"arrivalDate":"10/06/2025"}}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.do(req, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestImportConfirmations_RequiresAPIKey() {
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/import/confirmations", strings.NewReader(`{"confirmations":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.do(req, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("x-api-key header required", decodeError(w))
}

func (suite *HandlerTestSuite) TestImportConfirmations_InvalidKey() {
	suite.mockImport.On("ValidateKey", mock.Anything, "tl_bad").Return(nil, apperrors.ErrUnauthorized).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/import/confirmations", strings.NewReader(`{}`))
	req.Header.Set("x-api-key", "tl_bad")
	w := suite.do(req, "")

	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *HandlerTestSuite) TestImportConfirmations_Success() {
	token := &domain.ImportToken{ID: "tok-1", Name: "Website"}
	suite.mockImport.On("ValidateKey", mock.Anything, "tl_good").Return(token, nil).Once()
	suite.mockImport.On("ImportConfirmations", mock.Anything, *token, mock.MatchedBy(func(r dto.ImportConfirmationsRequest) bool {
		return len(r.Confirmations) == 1 && r.Confirmations[0].ConfirmationCode == "SG-0100"
	})).Return(&dto.ImportConfirmationsResponse{Created: 1, Rejected: []dto.ImportRejection{}}, nil).Once()

	payload := `{"confirmations":[{"confirmationCode":"SG-0100","mainClientName":"Giorgi","arrivalDate":"2025-07-01"}]}`
	req, _ := http.NewRequest(http.MethodPost, "/api/v1/import/confirmations", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", "tl_good")
	w := suite.do(req, "")

	suite.Equal(http.StatusOK, w.Code)
	var got dto.ImportConfirmationsResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(1, got.Created)
}

func (suite *HandlerTestSuite) TestImportTokens_AdminOnly() {
	suite.asRole("user-3", domain.RoleCoworker)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/import-tokens", nil)
	w := suite.do(req, "user-3")

	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal("Insufficient permissions", decodeError(w))
}

func (suite *HandlerTestSuite) TestCreateImportToken_ExpiryInDays() {
	actor := suite.asRole("admin-1", domain.RoleAdmin)
	token := &domain.ImportToken{ID: "tok-2", Name: "Partner feed"}
	suite.mockImport.On("CreateToken", mock.Anything, actor, "Partner feed", mock.MatchedBy(func(d *time.Duration) bool {
		return d != nil && *d == 30*24*time.Hour
	})).Return("tl_plain", token, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/import-tokens", strings.NewReader(`{"name":"Partner feed","expiresInDays":30}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.do(req, "admin-1")

	suite.Equal(http.StatusCreated, w.Code)
	var got dto.CreateImportTokenResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal("tl_plain", got.Token)
	suite.Equal("tok-2", got.Details.ID)
}

func (suite *HandlerTestSuite) TestExportTransactions_CSV() {
	actor := suite.asRole("user-3", domain.RoleCoworker)
	suite.mockExport.On("ExportTransactionsCSV", mock.Anything, actor, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			w := args.Get(3).(io.Writer)
			_, _ = io.WriteString(w, "\"date\",\"kind\"\n\"2025-06-01\",\"in\"\n")
		}).Return(nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/export/transactions.csv", nil)
	w := suite.do(req, "user-3")

	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("text/csv; charset=utf-8", w.Header().Get("Content-Type"))
	suite.Contains(w.Header().Get("Content-Disposition"), "attachment; filename=\"transactions-")
	suite.Contains(w.Body.String(), "\"2025-06-01\",\"in\"")
}

func (suite *HandlerTestSuite) TestExportTransactions_WorkerForbidden() {
	suite.asRole("user-1", domain.RoleWorker)

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/export/transactions.csv", nil)
	w := suite.do(req, "user-1")

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockExport.AssertNotCalled(suite.T(), "ExportTransactionsCSV", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *HandlerTestSuite) TestExportConfirmations_ErrorBeforeWriteIsJSON() {
	actor := suite.asRole("user-3", domain.RoleCoworker)
	suite.mockExport.On("ExportConfirmationsCSV", mock.Anything, actor, mock.Anything, mock.Anything).
		Return(errors.New("db gone")).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/export/confirmations.csv", nil)
	w := suite.do(req, "user-3")

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.Contains(w.Header().Get("Content-Type"), "application/json")
	suite.Empty(w.Header().Get("Content-Disposition"))
	suite.Equal("Failed to export", decodeError(w))
}

func (suite *HandlerTestSuite) TestGetProfile() {
	actor := suite.asRole("user-3", domain.RoleCoworker)
	suite.mockProfile.On("GetProfile", mock.Anything, actor).Return(&dto.ProfileResponse{
		Profile:       domain.Profile{UserID: "user-3"},
		EffectiveRole: domain.RoleCoworker,
		Permissions:   actor.Permissions(),
	}, nil).Once()

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/me", nil)
	w := suite.do(req, "user-3")

	suite.Equal(http.StatusOK, w.Code)
	var got dto.ProfileResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &got))
	suite.Equal(domain.RoleCoworker, got.EffectiveRole)
	suite.Contains(got.Permissions, domain.PermExport)
}

func (suite *HandlerTestSuite) TestSaveHotel_InvalidEmail() {
	suite.asRole("user-1", domain.RoleWorker)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/saved-hotels", strings.NewReader(`{"name":"Rooms Kazbegi","email":"not-an-email"}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.do(req, "user-1")

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *HandlerTestSuite) TestSaveHotel_Success() {
	actor := suite.asRole("user-1", domain.RoleWorker)
	hotel := &domain.SavedHotel{ID: "h1", Name: "Rooms Kazbegi", Email: "res@rooms.ge"}
	suite.mockBooking.On("SaveHotel", mock.Anything, actor, dto.SaveHotelRequest{Name: "Rooms Kazbegi", Email: "res@rooms.ge"}).
		Return(hotel, nil).Once()

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/saved-hotels", strings.NewReader(`{"name":"Rooms Kazbegi","email":"res@rooms.ge"}`))
	req.Header.Set("Content-Type", "application/json")
	w := suite.do(req, "user-1")

	suite.Equal(http.StatusOK, w.Code)
}

// TestHandlerTestSuite runs the entire test suite.
func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}
