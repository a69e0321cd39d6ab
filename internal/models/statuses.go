package models

// AppointmentStatus - статус записи на прием
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "agendado"
	AppointmentConfirmed AppointmentStatus = "confirmado"
	AppointmentFinished  AppointmentStatus = "finalizado"
	AppointmentCancelled AppointmentStatus = "cancelado"
)

// IsValid сообщает, что статус входит в известный набор
func (s AppointmentStatus) IsValid() bool {
	switch s {
	case AppointmentScheduled, AppointmentConfirmed, AppointmentFinished, AppointmentCancelled:
		return true
	}
	return false
}

// TransactionKind - тип финансовой операции
type TransactionKind string

const (
	TransactionIncome  TransactionKind = "receita"
	TransactionExpense TransactionKind = "despesa"
)

func (k TransactionKind) IsValid() bool {
	return k == TransactionIncome || k == TransactionExpense
}

const (
	DefaultAppointmentKind     = "consulta"
	DefaultTransactionCategory = "Geral"
)
