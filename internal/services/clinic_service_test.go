package services

import (
	"context"
	"testing"
	"time"

	"github.com/KelvenPer/Aura/internal/clock"
	"github.com/KelvenPer/Aura/internal/models"
	"github.com/KelvenPer/Aura/internal/repositories"
	"github.com/KelvenPer/Aura/internal/services/dto"
	"github.com/KelvenPer/Aura/internal/testutil"
	"github.com/KelvenPer/Aura/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clinicEnv struct {
	patients     *testutil.PatientStore
	appointments *testutil.AppointmentStore
	transactions *testutil.TransactionStore

	patientSvc     PatientService
	appointmentSvc AppointmentService
	financeSvc     FinanceService
}

func newClinicEnv() *clinicEnv {
	clk := clock.NewFake(testNow)
	patients := testutil.NewPatientStore()
	appointments := testutil.NewAppointmentStore(patients)
	transactions := testutil.NewTransactionStore()
	return &clinicEnv{
		patients:       patients,
		appointments:   appointments,
		transactions:   transactions,
		patientSvc:     NewPatientService(patients, clk),
		appointmentSvc: NewAppointmentService(appointments, patients),
		financeSvc:     NewFinanceService(transactions, clk),
	}
}

var (
	doctor = &models.User{BaseModel: models.BaseModel{ID: 1}, Name: "Dr. Ana", IsActive: true}
	other  = &models.User{BaseModel: models.BaseModel{ID: 2}, Name: "Dr. Bruno", IsActive: true}
)

func TestPatientService_CreateAndGet(t *testing.T) {
	env := newClinicEnv()
	ctx := context.Background()

	created, err := env.patientSvc.Create(ctx, nil, doctor, &dto.CreatePatientRequest{
		Name: "Joao", Phone: "11999990000", CPF: strPtr("123.456.789-01"),
	})
	require.NoError(t, err)
	require.NotNil(t, created.CPF)
	assert.Equal(t, "12345678901", *created.CPF)
	assert.Equal(t, testNow, created.RegisteredAt)
	require.NotNil(t, created.OwnerID)
	assert.Equal(t, doctor.ID, *created.OwnerID)

	got, err := env.patientSvc.Get(ctx, nil, doctor, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Joao", got.Name)

	_, err = env.patientSvc.Get(ctx, nil, other, created.ID)
	assert.ErrorIs(t, err, apperrors.ErrPatientAccessDenied)

	_, err = env.patientSvc.Get(ctx, nil, doctor, 404)
	assert.ErrorIs(t, err, apperrors.ErrPatientNotFound)
}

func TestPatientService_DuplicateCPF(t *testing.T) {
	env := newClinicEnv()
	ctx := context.Background()

	_, err := env.patientSvc.Create(ctx, nil, doctor, &dto.CreatePatientRequest{Name: "A", Phone: "1", CPF: strPtr("12345678901")})
	require.NoError(t, err)
	_, err = env.patientSvc.Create(ctx, nil, other, &dto.CreatePatientRequest{Name: "B", Phone: "2", CPF: strPtr("123.456.789-01")})
	assert.ErrorIs(t, err, apperrors.ErrCPFAlreadyExists)
}

func TestPatientService_ListVisible(t *testing.T) {
	env := newClinicEnv()
	ctx := context.Background()

	require.NoError(t, env.patients.Create(nil, &models.Patient{Name: "Shared", Phone: "0"}))
	_, err := env.patientSvc.Create(ctx, nil, doctor, &dto.CreatePatientRequest{Name: "Mine", Phone: "1"})
	require.NoError(t, err)
	_, err = env.patientSvc.Create(ctx, nil, other, &dto.CreatePatientRequest{Name: "Theirs", Phone: "2"})
	require.NoError(t, err)

	list, err := env.patientSvc.List(ctx, nil, doctor)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Mine", list[0].Name)
	assert.Equal(t, "Shared", list[1].Name)
}

func TestAppointmentService_Create(t *testing.T) {
	env := newClinicEnv()
	ctx := context.Background()
	patient, err := env.patientSvc.Create(ctx, nil, doctor, &dto.CreatePatientRequest{Name: "Joao", Phone: "1"})
	require.NoError(t, err)

	start := testNow.Add(24 * time.Hour)
	resp, err := env.appointmentSvc.Create(ctx, nil, doctor, &dto.CreateAppointmentRequest{
		PatientID: patient.ID,
		StartsAt:  start,
		EndsAt:    start.Add(30 * time.Minute),
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultAppointmentKind, resp.Kind)
	assert.Equal(t, string(models.AppointmentScheduled), resp.Status)
	assert.Equal(t, "Joao", resp.Patient.Name)

	list, err := env.appointmentSvc.List(ctx, nil, doctor, repositories.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Joao", list[0].Patient.Name)
}

func TestAppointmentService_Create_Rejections(t *testing.T) {
	env := newClinicEnv()
	ctx := context.Background()
	patient, err := env.patientSvc.Create(ctx, nil, doctor, &dto.CreatePatientRequest{Name: "Joao", Phone: "1"})
	require.NoError(t, err)
	start := testNow.Add(time.Hour)

	tests := []struct {
		name string
		user *models.User
		req  dto.CreateAppointmentRequest
		want error
	}{
		{"unknown patient", doctor, dto.CreateAppointmentRequest{PatientID: 99, StartsAt: start, EndsAt: start.Add(time.Hour)}, apperrors.ErrPatientNotFound},
		{"foreign patient", other, dto.CreateAppointmentRequest{PatientID: patient.ID, StartsAt: start, EndsAt: start.Add(time.Hour)}, apperrors.ErrPatientAccessDenied},
		{"end equals start", doctor, dto.CreateAppointmentRequest{PatientID: patient.ID, StartsAt: start, EndsAt: start}, apperrors.ErrInvalidAppointmentWindow},
		{"end before start", doctor, dto.CreateAppointmentRequest{PatientID: patient.ID, StartsAt: start, EndsAt: start.Add(-time.Minute)}, apperrors.ErrInvalidAppointmentWindow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.appointmentSvc.Create(ctx, nil, tt.user, &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestAppointmentService_List_RangeAndOrder(t *testing.T) {
	env := newClinicEnv()
	ctx := context.Background()
	patient, err := env.patientSvc.Create(ctx, nil, doctor, &dto.CreatePatientRequest{Name: "Joao", Phone: "1"})
	require.NoError(t, err)

	for _, offset := range []time.Duration{48 * time.Hour, 2 * time.Hour, 24 * time.Hour} {
		start := testNow.Add(offset)
		_, err := env.appointmentSvc.Create(ctx, nil, doctor, &dto.CreateAppointmentRequest{
			PatientID: patient.ID, StartsAt: start, EndsAt: start.Add(time.Hour),
		})
		require.NoError(t, err)
	}

	all, err := env.appointmentSvc.List(ctx, nil, doctor, repositories.AppointmentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].StartsAt.Before(all[1].StartsAt))
	assert.True(t, all[1].StartsAt.Before(all[2].StartsAt))

	from, to := testNow.Add(12*time.Hour), testNow.Add(36*time.Hour)
	ranged, err := env.appointmentSvc.List(ctx, nil, doctor, repositories.AppointmentFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, ranged, 1)

	_, err = env.appointmentSvc.List(ctx, nil, doctor, repositories.AppointmentFilter{From: &to, To: &from})
	assert.Equal(t, 400, apperrors.HTTPStatus(err))

	theirs, err := env.appointmentSvc.List(ctx, nil, other, repositories.AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestFinanceService_CreateDefaults(t *testing.T) {
	env := newClinicEnv()

	resp, err := env.financeSvc.Create(context.Background(), nil, doctor, &dto.CreateTransactionRequest{
		Description: "Consulta", Amount: 250, Kind: "receita",
	})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultTransactionCategory, resp.Category)
	assert.Equal(t, testNow, resp.CompetenceDate)
	assert.False(t, resp.Paid)

	_, err = env.financeSvc.Create(context.Background(), nil, doctor, &dto.CreateTransactionRequest{
		Description: "X", Amount: 1, Kind: "transferencia",
	})
	assert.Equal(t, 400, apperrors.HTTPStatus(err))
}

func TestFinanceService_Summary(t *testing.T) {
	env := newClinicEnv()
	ctx := context.Background()

	entries := []dto.CreateTransactionRequest{
		{Description: "Consulta paga", Amount: 300.10, Kind: "receita", Paid: true},
		{Description: "Consulta pendente", Amount: 200.20, Kind: "receita"},
		{Description: "Aluguel", Amount: 150.05, Kind: "despesa", Paid: true},
	}
	for i := range entries {
		_, err := env.financeSvc.Create(ctx, nil, doctor, &entries[i])
		require.NoError(t, err)
	}
	// чужая операция не учитывается
	_, err := env.financeSvc.Create(ctx, nil, other, &dto.CreateTransactionRequest{Description: "X", Amount: 999, Kind: "receita"})
	require.NoError(t, err)

	summary, err := env.financeSvc.Summary(ctx, nil, doctor)
	require.NoError(t, err)
	assert.Equal(t, 500.30, summary.Income)
	assert.Equal(t, 150.05, summary.Expense)
	assert.Equal(t, 350.25, summary.Balance)
	assert.Equal(t, 200.20, summary.Pending)

	list, err := env.financeSvc.List(ctx, nil, doctor)
	require.NoError(t, err)
	assert.Len(t, list, 3)
}
