package billing

import (
	"testing"

	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/saas-backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

const testWebhookSecret = "whsec_test"

func signed(t *testing.T, payload, secret string) (body []byte, header string) {
	t.Helper()
	sp := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload: []byte(payload),
		Secret:  secret,
	})
	return sp.Payload, sp.Header
}

func TestParseWebhook(t *testing.T) {
	c := NewStripeClient("sk_test", testWebhookSecret)

	t.Run("subscription updated", func(t *testing.T) {
		body, header := signed(t, `{"id":"evt_1","object":"event","type":"customer.subscription.updated","data":{"object":{"id":"sub_1","object":"subscription","status":"past_due"}}}`, testWebhookSecret)

		ev, err := c.ParseWebhook(body, header)
		require.NoError(t, err)
		assert.Equal(t, EventSubscriptionUpdated, ev.Type)
		assert.Equal(t, "sub_1", ev.SubscriptionID)
		assert.Equal(t, "past_due", ev.ProviderStatus)
	})

	t.Run("unrelated event", func(t *testing.T) {
		body, header := signed(t, `{"id":"evt_2","object":"event","type":"invoice.paid","data":{"object":{"id":"in_1","object":"invoice"}}}`, testWebhookSecret)

		ev, err := c.ParseWebhook(body, header)
		require.NoError(t, err)
		assert.Equal(t, "invoice.paid", ev.Type)
		assert.Empty(t, ev.SubscriptionID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		body, header := signed(t, `{"id":"evt_3","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_1"}}}`, "whsec_other")

		_, err := c.ParseWebhook(body, header)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := c.ParseWebhook([]byte(`{"id":"evt_4","object":"event"}`), "")
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("body altered after signing", func(t *testing.T) {
		body, header := signed(t, `{"id":"evt_5","object":"event","type":"customer.subscription.deleted","data":{"object":{"id":"sub_1"}}}`, testWebhookSecret)
		body = append(body[:len(body)-1], []byte(` }`)...)

		_, err := c.ParseWebhook(body, header)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestMapStatus(t *testing.T) {
	assert.Equal(t, models.StatusActive, MapStatus("active"))
	assert.Equal(t, models.StatusCanceled, MapStatus("canceled"))
	assert.Equal(t, models.StatusPastDue, MapStatus("past_due"))
	assert.Equal(t, models.StatusInactive, MapStatus("trialing"))
	assert.Equal(t, models.StatusInactive, MapStatus("incomplete_expired"))
	assert.Equal(t, models.StatusInactive, MapStatus(""))
}

func TestUnitAmount(t *testing.T) {
	assert.Equal(t, int64(999), UnitAmount(9.99))
	assert.Equal(t, int64(2000), UnitAmount(20))
}

func TestTranslateStripeErrors(t *testing.T) {
	invalid := translate(&stripe.Error{HTTPStatusCode: 400, Msg: "No such price"}, "create checkout session")
	assert.Equal(t, apperr.KindBadRequest, apperr.KindOf(invalid))
	assert.Equal(t, "create checkout session: No such price", invalid.Error())

	limited := translate(&stripe.Error{HTTPStatusCode: 429, Msg: "rate limited"}, "create price")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(limited))

	down := translate(&stripe.Error{HTTPStatusCode: 502}, "create price")
	assert.Equal(t, apperr.KindUnavailable, apperr.KindOf(down))
}
