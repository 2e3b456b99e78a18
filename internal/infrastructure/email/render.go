// Package email entrega de recordatorios por SMTP (gomail) o solo en el log.
package email

import (
	"fmt"
	"html"
	"strings"

	"github.com/jhoicas/Solicitudes-api/internal/application/reminder"
)

const dateLayout = "2006-01-02"

// rendered asunto y cuerpos de un recordatorio.
type rendered struct {
	Subject string
	Plain   string
	HTML    string
}

// render arma el correo: una línea por ítem, con enlace a su solicitud.
func render(msg reminder.Message, baseURL string) rendered {
	date := msg.TargetDate.Format(dateLayout)
	baseURL = strings.TrimRight(baseURL, "/")
	name := msg.Name
	if name == "" {
		name = msg.To
	}

	var plain, rows strings.Builder
	fmt.Fprintf(&plain, "Hola %s,\n\nLos siguientes ítems a tu cargo vencen el %s:\n\n", name, date)
	for _, it := range msg.Items {
		link := fmt.Sprintf("%s/requests/%s", baseURL, it.RequestID)
		fmt.Fprintf(&plain, "- Solicitud #%d: %s (%d %s)\n  %s\n", it.RequestNumber, it.ItemName, it.Quantity, it.UnitOfCount, link)
		fmt.Fprintf(&rows, `<li><a href="%s">Solicitud #%d</a>: %s (%d %s)</li>`,
			html.EscapeString(link), it.RequestNumber, html.EscapeString(it.ItemName), it.Quantity, html.EscapeString(it.UnitOfCount))
	}
	plain.WriteString("\nEste es un mensaje automático.\n")

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<p>Hola %s,</p>
			<p>Los siguientes ítems a tu cargo vencen el <strong>%s</strong>:</p>
			<ul>%s</ul>
			<p>Este es un mensaje automático.</p>
		</body>
		</html>
	`, html.EscapeString(name), date, rows.String())

	return rendered{
		Subject: fmt.Sprintf("Recordatorio: %d ítem(s) vencen el %s", len(msg.Items), date),
		Plain:   plain.String(),
		HTML:    htmlBody,
	}
}
