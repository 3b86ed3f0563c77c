package whatsapp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetaParseWebhookText(t *testing.T) {
	body := []byte(`{
		"object": "whatsapp_business_account",
		"entry": [{
			"changes": [{
				"value": {
					"metadata": {"display_phone_number": "5491155550000", "phone_number_id": "123"},
					"messages": [{
						"from": "5491166660000",
						"id": "wamid.abc123",
						"timestamp": "1700000000",
						"type": "text",
						"text": {"body": "hola, ¿tenés cerámicas?"}
					}]
				}
			}]
		}]
	}`)

	p := NewMetaProvider("123", "token", "")
	msgs, err := p.ParseWebhook("application/json", body)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	msg := msgs[0]
	assert.Equal(t, "wamid.abc123", msg.ProviderMessageID)
	assert.Equal(t, "5491166660000", msg.From)
	assert.Equal(t, "5491155550000", msg.To)
	assert.Equal(t, TypeText, msg.Type)
	assert.Equal(t, "hola, ¿tenés cerámicas?", msg.Text)
	assert.Equal(t, "hola, ¿tenés cerámicas?", msg.ContentText())
}

func TestMetaParseWebhookNonTextTypes(t *testing.T) {
	body := []byte(`{
		"entry": [{
			"changes": [{
				"value": {
					"metadata": {"display_phone_number": "5491155550000"},
					"messages": [
						{"from": "549111", "id": "m1", "type": "image", "image": {"caption": "mi patio"}},
						{"from": "549111", "id": "m2", "type": "audio"},
						{"from": "549111", "id": "m3", "type": "location", "location": {"latitude": -34.6, "longitude": -58.4}},
						{"from": "549111", "id": "m4", "type": "interactive", "interactive": {"button_reply": {"title": "Confirmar pedido"}}},
						{"from": "549111", "id": "m5", "type": "sticker"}
					]
				}
			}]
		}]
	}`)

	p := NewMetaProvider("123", "token", "")
	msgs, err := p.ParseWebhook("application/json", body)
	require.NoError(t, err)
	require.Len(t, msgs, 5)

	assert.Equal(t, "[Imagen]", msgs[0].ContentText())
	assert.Equal(t, "[Audio]", msgs[1].ContentText())
	assert.Equal(t, "[Ubicación: -34.6, -58.4]", msgs[2].ContentText())
	assert.Equal(t, "Confirmar pedido", msgs[3].ContentText())
	assert.Equal(t, "[Mensaje no soportado]", msgs[4].ContentText())
}

func TestMetaParseWebhookStatusOnly(t *testing.T) {
	body := []byte(`{"entry":[{"changes":[{"value":{"metadata":{"display_phone_number":"549115"},"statuses":[{"id":"wamid.x","status":"delivered"}]}}]}]}`)

	p := NewMetaProvider("123", "token", "")
	msgs, err := p.ParseWebhook("application/json", body)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestTwilioParseWebhookText(t *testing.T) {
	body := []byte("MessageSid=SM123&From=whatsapp%3A%2B5491166660000&To=whatsapp%3A%2B5491155550000&Body=hola&NumMedia=0")

	p := NewTwilioProvider("AC1", "tok", "+14155238886")
	msgs, err := p.ParseWebhook("application/x-www-form-urlencoded", body)
	require.NoError(t, err)
	require.Len(t, msgs, 1)

	msg := msgs[0]
	assert.Equal(t, "SM123", msg.ProviderMessageID)
	assert.Equal(t, "+5491166660000", msg.From)
	assert.Equal(t, "+5491155550000", msg.To)
	assert.Equal(t, TypeText, msg.Type)
	assert.Equal(t, "hola", msg.Text)
}

func TestTwilioParseWebhookMediaAndLocation(t *testing.T) {
	p := NewTwilioProvider("AC1", "tok", "+14155238886")

	msgs, err := p.ParseWebhook("application/x-www-form-urlencoded",
		[]byte("MessageSid=SM124&From=whatsapp%3A%2B549111&To=whatsapp%3A%2B549115&Body=&NumMedia=1&MediaContentType0=image%2Fjpeg"))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, TypeImage, msgs[0].Type)

	msgs, err = p.ParseWebhook("application/x-www-form-urlencoded",
		[]byte("MessageSid=SM125&From=whatsapp%3A%2B549111&To=whatsapp%3A%2B549115&Latitude=-34.6&Longitude=-58.4"))
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.Equal(t, TypeLocation, msgs[0].Type)
	assert.Equal(t, "[Ubicación: -34.6, -58.4]", msgs[0].ContentText())
}

func TestTwilioParseWebhookStatusCallbackIgnored(t *testing.T) {
	p := NewTwilioProvider("AC1", "tok", "+14155238886")

	msgs, err := p.ParseWebhook("application/x-www-form-urlencoded",
		[]byte("SmsStatus=delivered&To=whatsapp%3A%2B549111"))
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
