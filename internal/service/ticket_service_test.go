package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/admission-service/internal/domain"
)

func TestCreateRejectsMissingFields(t *testing.T) {
	tickets, _ := newServices(t)
	ctx := context.Background()

	cases := []TicketCreateInput{
		{BuyerName: "", EventName: "Concert"},
		{BuyerName: "Ana", EventName: ""},
		{BuyerName: "   ", EventName: "Concert"},
		{BuyerName: "Ana", EventName: "\t\n"},
	}
	for _, input := range cases {
		_, err := tickets.Create(ctx, input)
		require.Error(t, err)
		assert.Equal(t, "INVALID_INPUT", domainCode(t, err))
	}
}

func TestCreateTrimsAndDefaults(t *testing.T) {
	tickets, _ := newServices(t)

	email := "ana@example.com"
	ticket, err := tickets.Create(context.Background(), TicketCreateInput{
		BuyerName:  "  Ana  ",
		BuyerEmail: &email,
		EventName:  " Concert ",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ana", ticket.BuyerName)
	assert.Equal(t, "Concert", ticket.EventName)
	require.NotNil(t, ticket.BuyerEmail)
	assert.Equal(t, email, *ticket.BuyerEmail)
	assert.Equal(t, domain.TicketStatusValid, ticket.Status)
	assert.NotEmpty(t, ticket.ID)
	assert.False(t, ticket.CreatedAt.IsZero())
}

func TestListNewestFirst(t *testing.T) {
	tickets, _ := newServices(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		ticket, err := tickets.Create(ctx, TicketCreateInput{BuyerName: "Ana", EventName: "Concert"})
		require.NoError(t, err)
		ids = append(ids, ticket.ID)
	}

	listed, err := tickets.List(ctx)
	require.NoError(t, err)
	require.Len(t, listed, 3)
	assert.Equal(t, ids[2], listed[0].ID)
	assert.Equal(t, ids[0], listed[2].ID)
}

func TestDelete(t *testing.T) {
	tickets, _ := newServices(t)
	ctx := context.Background()

	ticket, err := tickets.Create(ctx, TicketCreateInput{BuyerName: "Ana", EventName: "Concert"})
	require.NoError(t, err)

	require.NoError(t, tickets.Delete(ctx, ticket.ID))

	_, err = tickets.Get(ctx, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))

	err = tickets.Delete(ctx, ticket.ID)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestQRImageWithoutCache(t *testing.T) {
	tickets, _ := newServices(t)
	ctx := context.Background()

	ticket, err := tickets.Create(ctx, TicketCreateInput{BuyerName: "Ana", EventName: "Concert"})
	require.NoError(t, err)

	png, err := tickets.QRImage(ctx, ticket.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, "\x89PNG", string(png[:4]))

	_, err = tickets.QRImage(ctx, "nonexistent-id")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", domainCode(t, err))
}

func TestQRDataURLDerivedFromID(t *testing.T) {
	tickets, _ := newServices(t)

	ticket, err := tickets.Create(context.Background(), TicketCreateInput{BuyerName: "Ana", EventName: "Concert"})
	require.NoError(t, err)

	url, err := tickets.QRDataURL(ticket.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "data:image/png;base64,"))

	again, err := tickets.QRDataURL(ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, url, again)
}
