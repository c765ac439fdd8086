package remote

// MoodAnalysis is the classification the analyzer endpoint returns for a clip.
type MoodAnalysis struct {
	Content bool `json:"content"`
	Scared  bool `json:"scared"`
	Hungry  bool `json:"hungry"`
}

// GenerateRequest is the JSON body sent to the image generation endpoint.
// Every field is sent literally, including zero values.
type GenerateRequest struct {
	Prompt            string `json:"prompt"`
	Width             int    `json:"width"`
	Height            int    `json:"height"`
	NumInferenceSteps int    `json:"num_inference_steps"`
	NegativePrompt    string `json:"negative_prompt"`
	Seed              int    `json:"seed"`
}

// Image is a downloaded generated image.
type Image struct {
	Data        []byte
	ContentType string
}

type analysisResponse struct {
	Analysis *MoodAnalysis `json:"analysis"`
}

type processResponse struct {
	GeneratedText *string `json:"generated_text"`
}

type generateResponse struct {
	ImageURL *string `json:"image_url"`
}
