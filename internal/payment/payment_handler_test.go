package payment_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"worksphere/internal/domain"
	"worksphere/internal/payment"
	paymentMock "worksphere/internal/payment/mock"
	"worksphere/internal/session"
)

func TestPaymentHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	svc := paymentMock.NewMockService(ctrl)
	h := payment.NewHandler(svc)

	hr := session.Session{UserID: "id", UID: "hr-uid", Role: domain.RoleHR}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		session.Set(c, hr)
		c.Next()
	})
	r.GET("/payments", h.History)
	r.GET("/all-payments", h.GetAll)
	r.GET("/all-payments/export", h.Export)

	t.Run("history passes uid", func(t *testing.T) {
		svc.EXPECT().History(gomock.Any(), hr, "emp-uid").Return([]payment.PaymentResponse{}, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/payments?uid=emp-uid", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("all payments filters", func(t *testing.T) {
		svc.EXPECT().GetAll(gomock.Any(), payment.Filter{Month: "May", Year: 2024}).Return(nil, nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/all-payments?month=May&year=2024", nil))

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("export streams xlsx", func(t *testing.T) {
		svc.EXPECT().Export(gomock.Any(), payment.Filter{}).Return([]byte("PK"), nil)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/all-payments/export", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, payment.ExportContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	})

	t.Run("bad year", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/all-payments?year=abc", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
