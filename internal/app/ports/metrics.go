package ports

type ExecutionMetrics interface {
	RecordTransfer()
	RecordAgreementExecuted()
	RecordAgreementFailed(reason string)
	RecordShipDelayed()
	RecordConflict()
}
