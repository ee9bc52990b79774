package analyze

import "github.com/Alias1177/fxsignal/models"

// Respond turns a pipeline result into the response returned to callers
func Respond(pred *models.Prediction, err error) models.PredictionResponse {
	if err != nil {
		return models.PredictionResponse{Success: false, Message: err.Error()}
	}
	return models.PredictionResponse{Success: true, Prediction: pred}
}
