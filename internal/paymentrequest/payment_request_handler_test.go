package paymentrequest_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"worksphere/internal/paymentrequest"
	paymentrequesterrors "worksphere/internal/paymentrequest/errors"
	paymentrequestMock "worksphere/internal/paymentrequest/mock"
	"worksphere/internal/session"
	"worksphere/internal/shared/apperror"
)

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  json.RawMessage `json:"meta"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func setupRouter(sess session.Session) *gin.Engine {
	gin.SetMode(gin.TestMode)
	apperror.Init()
	r := gin.New()
	r.Use(func(c *gin.Context) {
		session.Set(c, sess)
		c.Next()
	})
	return r
}

func decode(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestPaymentRequestHandler_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := paymentrequestMock.NewMockService(ctrl)
	h := paymentrequest.NewHandler(svc)

	r := setupRouter(hrActor())
	r.POST("/payment-requests", h.Create)

	employeeID := uuid.NewString()

	t.Run("created", func(t *testing.T) {
		svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ any, sess session.Session, req paymentrequest.CreatePaymentRequestRequest) (paymentrequest.PaymentRequestResponse, error) {
				assert.Equal(t, "hr-uid", sess.UID)
				assert.Equal(t, "3000", req.Amount.String())
				return paymentrequest.PaymentRequestResponse{Status: paymentrequest.StatusPending}, nil
			})

		w := httptest.NewRecorder()
		body := `{"employeeId":"` + employeeID + `","amount":3000,"month":"July","year":2025}`
		req := httptest.NewRequest(http.MethodPost, "/payment-requests", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, string(decode(t, w).Data), `"status":"pending"`)
	})

	t.Run("unknown month fails binding", func(t *testing.T) {
		w := httptest.NewRecorder()
		body := `{"employeeId":"` + employeeID + `","amount":3000,"month":"Smarch","year":2025}`
		req := httptest.NewRequest(http.MethodPost, "/payment-requests", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeInvalidInput, decode(t, w).Error.Code)
	})

	t.Run("unverified employee", func(t *testing.T) {
		svc.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(paymentrequest.PaymentRequestResponse{}, paymentrequesterrors.ErrNotVerified)

		w := httptest.NewRecorder()
		body := `{"employeeId":"` + employeeID + `","amount":3000,"month":"July","year":2025}`
		req := httptest.NewRequest(http.MethodPost, "/payment-requests", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, apperror.CodeNotVerified, decode(t, w).Error.Code)
	})
}

func TestPaymentRequestHandler_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := paymentrequestMock.NewMockService(ctrl)
	h := paymentrequest.NewHandler(svc)

	r := setupRouter(hrActor())
	r.GET("/payment-requests", h.GetAll)

	t.Run("pending filter is normalised", func(t *testing.T) {
		rows := make([]paymentrequest.PaymentRequestResponse, 3)
		svc.EXPECT().GetAll(gomock.Any(), paymentrequest.ListFilter{Status: "pending"}).Return(rows, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment-requests?status=PENDING&page=1&page_size=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		env := decode(t, w)
		var items []paymentrequest.PaymentRequestResponse
		require.NoError(t, json.Unmarshal(env.Data, &items))
		assert.Len(t, items, 2)
		assert.Contains(t, string(env.Meta), `"total":3`)
	})

	t.Run("invalid status", func(t *testing.T) {
		svc.EXPECT().GetAll(gomock.Any(), paymentrequest.ListFilter{Status: "paid"}).
			Return(nil, paymentrequesterrors.ErrInvalidStatusFilter)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment-requests?status=paid", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentRequestHandler_GetByID(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := paymentrequestMock.NewMockService(ctrl)
	h := paymentrequest.NewHandler(svc)

	r := setupRouter(hrActor())
	r.GET("/payment-requests/:id", h.GetByID)

	t.Run("found", func(t *testing.T) {
		pr := pendingFor("jane-uid", true)
		svc.EXPECT().GetByID(gomock.Any(), pr.ID.String()).Return(pr, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment-requests/"+pr.ID.String(), nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, string(decode(t, w).Data), `"actions":["pay","reject"]`)
	})

	t.Run("missing", func(t *testing.T) {
		id := uuid.NewString()
		svc.EXPECT().GetByID(gomock.Any(), id).Return(nil, paymentrequesterrors.ErrPaymentRequestNotFound)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payment-requests/"+id, nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, apperror.CodeNotFound, decode(t, w).Error.Code)
	})
}
