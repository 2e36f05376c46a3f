package actions

const (
	// InitializeRoomComputeUnits covers two seed derivations and one record
	// allocation.
	InitializeRoomComputeUnits uint64 = 100

	// StakeAndCommitComputeUnits covers three derivations, the vault check and
	// the prediction allocation.
	StakeAndCommitComputeUnits uint64 = 150

	SettlePredictionComputeUnits uint64 = 100

	PublishPriceComputeUnits uint64 = 10

	FundVaultComputeUnits uint64 = 50
)
