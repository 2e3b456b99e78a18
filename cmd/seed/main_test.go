package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
)

func TestParse_FilasValidas(t *testing.T) {
	in := "email,name,unit,roles\n" +
		"Ana@Empresa.co,Ana Pérez,Compras,staff|manager\n" +
		"luis@empresa.co,Luis,,\n"
	rows, err := parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ana@empresa.co", rows[0].Email)
	assert.Equal(t, "Compras", rows[0].Unit)
	assert.Equal(t, []entity.Role{entity.RoleStaff, entity.RoleManager}, rows[0].Roles)
	assert.Equal(t, []entity.Role{entity.RoleUser}, rows[1].Roles)
	assert.Empty(t, rows[1].Unit)
}

func TestParse_Errores(t *testing.T) {
	cases := map[string]string{
		"encabezado":      "correo,name,unit,roles\n",
		"rol desconocido": "email,name,unit,roles\na@e.co,A,,root\n",
		"email repetido":  "email,name,unit,roles\na@e.co,A,,\nA@e.co,B,,\n",
		"email inválido":  "email,name,unit,roles\nsin-arroba,A,,\n",
		"columnas":        "email,name,unit,roles\na@e.co,A\n",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := parse(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestParse_Latin1(t *testing.T) {
	utf8 := "email,name,unit,roles\nn@e.co,Nuñez,Logística,staff\n"
	latin, err := charmap.ISO8859_1.NewEncoder().String(utf8)
	require.NoError(t, err)

	rows, err := parse(transform.NewReader(strings.NewReader(latin), charmap.ISO8859_1.NewDecoder()))
	require.NoError(t, err)
	assert.Equal(t, "Nuñez", rows[0].Name)
	assert.Equal(t, "Logística", rows[0].Unit)
}
