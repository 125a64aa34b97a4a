package entity

// CleanlinessStatus итог классического анализа чистоты
type CleanlinessStatus string

const (
	CleanlinessClean          CleanlinessStatus = "clean"
	CleanlinessDirty          CleanlinessStatus = "dirty"
	CleanlinessAnalysisFailed CleanlinessStatus = "analysis_failed"
)

// DustThreshold порог дисперсии лапласиана, начиная с которого машина грязная.
const DustThreshold = 80.0

// CleanlinessReading показатель зашумлённости изображения и его статус
type CleanlinessReading struct {
	Status   CleanlinessStatus `json:"status"`
	Variance float64           `json:"variance"`
}

// ClassifyVariance переводит дисперсию в статус (граница включительно).
func ClassifyVariance(variance float64) CleanlinessStatus {
	if variance >= DustThreshold {
		return CleanlinessDirty
	}
	return CleanlinessClean
}

// NewCleanlinessReading собирает показание по посчитанной дисперсии
func NewCleanlinessReading(variance float64) CleanlinessReading {
	return CleanlinessReading{Status: ClassifyVariance(variance), Variance: variance}
}

// FailedCleanlinessReading показание для случая, когда анализ не удался
func FailedCleanlinessReading() CleanlinessReading {
	return CleanlinessReading{Status: CleanlinessAnalysisFailed, Variance: 0}
}
