package dto_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Solicitudes-api/internal/application/dto"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
)

func validItem() dto.RequestItemInput {
	return dto.RequestItemInput{Name: "Monitor 24\"", Quantity: 1, RequiredAt: "2026-10-15"}
}

func TestValidate_CreateRequestValido(t *testing.T) {
	in := dto.CreateRequestRequest{Reason: "Reemplazo de monitor dañado", Priority: "HIGH", Items: []dto.RequestItemInput{validItem()}}
	assert.NoError(t, dto.Validate(in))
}

func TestValidate_SinItems(t *testing.T) {
	in := dto.CreateRequestRequest{Reason: "Reemplazo de monitor dañado"}
	err := dto.Validate(in)
	require.Error(t, err)

	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "items", ve.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate_CampoDeItemConIndice(t *testing.T) {
	item := validItem()
	item.Quantity = 0
	in := dto.CreateRequestRequest{Reason: "Reemplazo de monitor dañado", Items: []dto.RequestItemInput{validItem(), item}}

	var ve *domain.ValidationError
	require.True(t, errors.As(dto.Validate(in), &ve))
	assert.Equal(t, "items[1].quantity", ve.Field)
}

func TestValidate_FechaYURL(t *testing.T) {
	item := validItem()
	item.RequiredAt = "15/10/2026"
	var ve *domain.ValidationError
	require.True(t, errors.As(dto.Validate(dto.CreateRequestRequest{Reason: "xxxxxxxxxx", Items: []dto.RequestItemInput{item}}), &ve))
	assert.Equal(t, "items[0].required_at", ve.Field)

	item = validItem()
	item.ReferenceLink = "no es url"
	require.True(t, errors.As(dto.Validate(dto.CreateRequestRequest{Reason: "xxxxxxxxxx", Items: []dto.RequestItemInput{item}}), &ve))
	assert.Equal(t, "items[0].reference_link", ve.Field)
}

func TestValidate_PrioridadDesconocida(t *testing.T) {
	in := dto.CreateRequestRequest{Reason: "xxxxxxxxxx", Priority: "CRITICAL", Items: []dto.RequestItemInput{validItem()}}
	var ve *domain.ValidationError
	require.True(t, errors.As(dto.Validate(in), &ve))
	assert.Equal(t, "priority", ve.Field)
}

func TestPageRequest_DefaultPage(t *testing.T) {
	p := dto.PageRequest{}
	p.DefaultPage()
	assert.Equal(t, 20, p.Limit)

	p = dto.PageRequest{Limit: 500, Offset: -3}
	p.DefaultPage()
	assert.Equal(t, 100, p.Limit)
	assert.Equal(t, 0, p.Offset)
}
