package reminder_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Solicitudes-api/internal/application/reminder"
	"github.com/jhoicas/Solicitudes-api/internal/domain"
	"github.com/jhoicas/Solicitudes-api/internal/domain/entity"
	"github.com/jhoicas/Solicitudes-api/pkg/logger"
)

// ─── Fakes ───────────────────────────────────────────────────────────────────

type fakeItems struct {
	items []entity.DueItem
	asked []time.Time
	err   error
}

func (f *fakeItems) FindDueItems(_ context.Context, date time.Time) ([]entity.DueItem, error) {
	f.asked = append(f.asked, date)
	return f.items, f.err
}

// memLedger emula la restricción única de cron_logs.
type memLedger struct {
	mu        sync.Mutex
	rows      map[string]entity.CronLogEntry
	insertErr error
	// raceOn simula que otra ejecución inserta la fila entre Exists e Insert.
	raceOn string
}

func newLedger() *memLedger { return &memLedger{rows: map[string]entity.CronLogEntry{}} }

func ledgerKey(job string, date time.Time, to, typ string) string {
	return job + "|" + date.Format("2006-01-02") + "|" + to + "|" + typ
}

func (m *memLedger) Exists(_ context.Context, job string, date time.Time, to, typ string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[ledgerKey(job, date, to, typ)]
	return ok, nil
}

func (m *memLedger) Insert(_ context.Context, e *entity.CronLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	k := ledgerKey(e.JobName, e.JobDate, e.Recipient, e.EmailType)
	if e.Recipient == m.raceOn {
		m.rows[k] = *e
	}
	if _, ok := m.rows[k]; ok {
		return domain.ErrDuplicate
	}
	m.rows[k] = *e
	return nil
}

func (m *memLedger) Delete(_ context.Context, job string, date time.Time, to, typ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, ledgerKey(job, date, to, typ))
	return nil
}

type fakeMailer struct {
	sent   []reminder.Message
	failTo map[string]bool
}

func (f *fakeMailer) SendReminder(_ context.Context, msg reminder.Message) error {
	if f.failTo[msg.To] {
		return errors.New("smtp: conexión rechazada")
	}
	f.sent = append(f.sent, msg)
	return nil
}

func due(reqID, email string, status entity.Status, item string) entity.DueItem {
	return entity.DueItem{
		ItemID:        item,
		ItemName:      "Ítem " + item,
		Quantity:      1,
		RequestID:     reqID,
		RequestNumber: 1,
		RequestStatus: status,
		AssigneeEmail: email,
		AssigneeName:  "Staff",
	}
}

var now = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newDispatcher(items *fakeItems, ledger *memLedger, mailer *fakeMailer) *reminder.Dispatcher {
	return reminder.NewDispatcher(items, ledger, mailer, time.UTC, logger.Nop()).WithClock(func() time.Time { return now })
}

// ─── Tests ───────────────────────────────────────────────────────────────────

func TestRun_SegundaEjecucionMismoDiaNoReenvia(t *testing.T) {
	items := &fakeItems{items: []entity.DueItem{
		due("r1", "staff@x.co", entity.StatusInProgress, "i1"),
		due("r1", "staff@x.co", entity.StatusInProgress, "i2"),
	}}
	ledger := newLedger()
	mailer := &fakeMailer{}
	d := newDispatcher(items, ledger, mailer)

	first, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, first.EmailsSent)
	assert.Equal(t, 0, first.EmailsSkipped)
	assert.Equal(t, 1, first.RequestsProcessed)
	assert.Equal(t, "2026-10-14", first.JobDate)
	assert.Equal(t, "2026-10-15", first.TargetDate)
	require.Len(t, mailer.sent, 1)
	assert.Len(t, mailer.sent[0].Items, 2)

	second, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.EmailsSent)
	assert.Equal(t, 1, second.EmailsSkipped)
	assert.Len(t, mailer.sent, 1, "no debe haber un segundo envío")
}

func TestRun_ConsultaItemsDeManana(t *testing.T) {
	items := &fakeItems{}
	d := newDispatcher(items, newLedger(), &fakeMailer{})

	stats, err := d.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, items.asked, 1)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), items.asked[0])
	assert.Zero(t, stats.EmailsSent)
}

func TestRun_FechaSegunZonaHoraria(t *testing.T) {
	loc := time.FixedZone("COT", -5*3600)
	// 02:00 UTC del 15 es todavía 14 en Bogotá.
	at := time.Date(2026, 10, 15, 2, 0, 0, 0, time.UTC)
	d := reminder.NewDispatcher(&fakeItems{}, newLedger(), &fakeMailer{}, loc, logger.Nop()).WithClock(func() time.Time { return at })

	jobDate, target := d.Dates()
	assert.Equal(t, time.Date(2026, 10, 14, 0, 0, 0, 0, time.UTC), jobDate)
	assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC), target)
}

func TestRun_InsercionConcurrenteCuentaComoOmitido(t *testing.T) {
	items := &fakeItems{items: []entity.DueItem{due("r1", "staff@x.co", entity.StatusAssigned, "i1")}}
	ledger := newLedger()
	ledger.raceOn = "staff@x.co"
	mailer := &fakeMailer{}

	stats, err := newDispatcher(items, ledger, mailer).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EmailsSkipped)
	assert.Empty(t, mailer.sent)
}

func TestRun_FalloDeEnvioLiberaReserva(t *testing.T) {
	items := &fakeItems{items: []entity.DueItem{
		due("r1", "a@x.co", entity.StatusAssigned, "i1"),
		due("r2", "b@x.co", entity.StatusAssigned, "i2"),
	}}
	ledger := newLedger()
	mailer := &fakeMailer{failTo: map[string]bool{"a@x.co": true}}
	d := newDispatcher(items, ledger, mailer)

	stats, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EmailsSent)
	assert.Equal(t, 1, stats.EmailsFailed)
	assert.Equal(t, 2, stats.RequestsProcessed)

	// El fallido queda libre para reintento el mismo día.
	mailer.failTo = nil
	retry, err := d.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, retry.EmailsSent)
	assert.Equal(t, 1, retry.EmailsSkipped)
}

func TestRun_AgrupaPorDestinatarioYOmiteTerminales(t *testing.T) {
	items := &fakeItems{items: []entity.DueItem{
		due("r1", "Staff@X.co", entity.StatusAssigned, "i1"),
		due("r2", "staff@x.co", entity.StatusNeedInfo, "i2"),
		due("r3", "staff@x.co", entity.StatusDone, "i3"),
		due("r4", "", entity.StatusAssigned, "i4"),
	}}
	mailer := &fakeMailer{}

	stats, err := newDispatcher(items, newLedger(), mailer).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EmailsSent)
	assert.Equal(t, 2, stats.RequestsProcessed)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "staff@x.co", mailer.sent[0].To)
	assert.Len(t, mailer.sent[0].Items, 2)
}

func TestRun_ErrorDeLedgerNoDetieneElJob(t *testing.T) {
	items := &fakeItems{items: []entity.DueItem{due("r1", "a@x.co", entity.StatusAssigned, "i1")}}
	ledger := newLedger()
	ledger.insertErr = errors.New("db caída")

	stats, err := newDispatcher(items, ledger, &fakeMailer{}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.EmailsFailed)
}

func TestRun_ErrorConsultandoItems(t *testing.T) {
	items := &fakeItems{err: errors.New("timeout")}
	_, err := newDispatcher(items, newLedger(), &fakeMailer{}).Run(context.Background())
	assert.ErrorIs(t, err, domain.ErrUpstream)
}
