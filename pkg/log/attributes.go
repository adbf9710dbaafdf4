package log

// Model and operation context.
const (
	// ModelNameKey identifies the estimator type, e.g. "DecisionTreeRegressor".
	ModelNameKey = "model.name"

	// OperationKey names the operation being performed. See the Operation* values.
	OperationKey = "ml.operation"

	// ComponentKey identifies the package or named logger, e.g. "tree", "model_selection".
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase.
	PhaseKey = "ml.phase"
)

// Data shape.
const (
	SamplesKey  = "data.samples"
	FeaturesKey = "data.features"
	ClassesKey  = "data.classes"

	// DataTypeKey records a column or label kind: "continuous" or "categorical".
	DataTypeKey = "data.type"

	// SourceKey records where a dataset was read from (file path or generator name).
	SourceKey = "data.source"
)

// Tree structure and hyperparameters.
const (
	CriterionKey   = "tree.criterion"
	TreeHeightKey  = "tree.height"
	TreeNodesKey   = "tree.nodes"
	TreeLeavesKey  = "tree.leaves"
	MaxDepthKey    = "tree.max_depth"
	MaxFeaturesKey = "tree.max_features"
	RandomSeedKey  = "config.random_seed"
)

// Validation and metrics.
const (
	ValidatorKey = "cv.validator"
	FoldKey      = "cv.fold"
	FoldsKey     = "cv.folds"
	MetricKey    = "metrics.name"
	ScoreKey     = "metrics.score"
	StdKey       = "metrics.std"

	// LogLikelihoodKey records the mean log-likelihood of an EM iteration.
	LogLikelihoodKey = "metrics.log_likelihood"
	IterationKey     = "training.iteration"
	DurationMsKey    = "perf.duration_ms"
)

// Error context.
const (
	ErrorCodeKey  = "error.code"
	SuggestionKey = "error.suggestion"
)

// Standard attribute values.
const (
	OperationTrain    = "train"
	OperationPredict  = "predict"
	OperationProba    = "proba"
	OperationScore    = "score"
	OperationValidate = "validate"
	OperationInspect  = "inspect"
	OperationExtract  = "extract"

	PhaseTraining   = "training"
	PhaseValidation = "validation"
	PhaseInference  = "inference"

	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorIncompatibleData  = "INCOMPATIBLE_DATA"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
)
