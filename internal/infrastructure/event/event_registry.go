package event

import (
	"github.com/clinic/backend/internal/domain/clinical"
	"github.com/clinic/backend/internal/domain/fee"
	"github.com/clinic/backend/internal/domain/finance"
)

// RegisterAllEvents registers all domain event types with the serializer.
// This is required for the OutboxProcessor to deserialize events from the
// outbox table.
func RegisterAllEvents(serializer *EventSerializer) {
	// Finance domain - bookkeeping entry events
	serializer.Register(finance.EventTypeFinancialEntryCreated, &finance.FinancialEntryCreatedEvent{})
	serializer.Register(finance.EventTypeFinancialEntryApproved, &finance.FinancialEntryApprovedEvent{})
	serializer.Register(finance.EventTypeFinancialEntryRejected, &finance.FinancialEntryRejectedEvent{})
	serializer.Register(finance.EventTypeFinancialEntryReverted, &finance.FinancialEntryRevertedEvent{})

	// Clinical domain - procedure record events
	serializer.Register(clinical.EventTypeProcedureRecordCreated, &clinical.ProcedureRecordCreatedEvent{})
	serializer.Register(clinical.EventTypeProcedureRecordApproved, &clinical.ProcedureRecordApprovedEvent{})
	serializer.Register(clinical.EventTypeProcedureRecordRejected, &clinical.ProcedureRecordRejectedEvent{})
	serializer.Register(clinical.EventTypeProcedureRecordReverted, &clinical.ProcedureRecordRevertedEvent{})

	// Clinical domain - daily patient count events
	serializer.Register(clinical.EventTypeDailyPatientCountCreated, &clinical.DailyPatientCountCreatedEvent{})
	serializer.Register(clinical.EventTypeDailyPatientCountApproved, &clinical.DailyPatientCountApprovedEvent{})
	serializer.Register(clinical.EventTypeDailyPatientCountRejected, &clinical.DailyPatientCountRejectedEvent{})
	serializer.Register(clinical.EventTypeDailyPatientCountReverted, &clinical.DailyPatientCountRevertedEvent{})

	// Fee domain events
	serializer.Register(fee.EventTypeRecordGenerated, &fee.RecordGeneratedEvent{})
	serializer.Register(fee.EventTypeRecordFlagged, &fee.RecordFlaggedEvent{})
	serializer.Register(fee.EventTypeGenerationFailed, &fee.GenerationFailedEvent{})
}
