package memes

import (
	"fmt"
	"os"
	"strconv"

	"github.com/JaimeStill/whiskers/pkg/remote"
)

// GenerationConfig holds the fixed parameters sent with every generation request.
type GenerationConfig struct {
	Width             int    `toml:"width"`
	Height            int    `toml:"height"`
	NumInferenceSteps int    `toml:"num_inference_steps"`
	NegativePrompt    string `toml:"negative_prompt"`
	Seed              *int   `toml:"seed"`
}

// GenerationEnv maps config fields to environment variable names for override injection.
type GenerationEnv struct {
	Width             string
	Height            string
	NumInferenceSteps string
	NegativePrompt    string
	Seed              string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *GenerationConfig) Finalize(env *GenerationEnv) error {
	c.loadDefaults()
	if env != nil {
		if err := c.loadEnv(env); err != nil {
			return err
		}
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *GenerationConfig) Merge(overlay *GenerationConfig) {
	if overlay.Width != 0 {
		c.Width = overlay.Width
	}
	if overlay.Height != 0 {
		c.Height = overlay.Height
	}
	if overlay.NumInferenceSteps != 0 {
		c.NumInferenceSteps = overlay.NumInferenceSteps
	}
	if overlay.NegativePrompt != "" {
		c.NegativePrompt = overlay.NegativePrompt
	}
	if overlay.Seed != nil {
		seed := *overlay.Seed
		c.Seed = &seed
	}
}

// Request builds the generation request body for prompt.
func (c *GenerationConfig) Request(prompt string) remote.GenerateRequest {
	req := remote.GenerateRequest{
		Prompt:            prompt,
		Width:             c.Width,
		Height:            c.Height,
		NumInferenceSteps: c.NumInferenceSteps,
		NegativePrompt:    c.NegativePrompt,
	}
	if c.Seed != nil {
		req.Seed = *c.Seed
	}
	return req
}

func (c *GenerationConfig) loadDefaults() {
	if c.Width == 0 {
		c.Width = 1024
	}
	if c.Height == 0 {
		c.Height = 1024
	}
	if c.NumInferenceSteps == 0 {
		c.NumInferenceSteps = 50
	}
	if c.Seed == nil {
		seed := 42
		c.Seed = &seed
	}
}

func (c *GenerationConfig) loadEnv(env *GenerationEnv) error {
	ints := []struct {
		name  string
		field *int
	}{
		{env.Width, &c.Width},
		{env.Height, &c.Height},
		{env.NumInferenceSteps, &c.NumInferenceSteps},
	}
	for _, e := range ints {
		if e.name == "" {
			continue
		}
		if v := os.Getenv(e.name); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", e.name, err)
			}
			*e.field = n
		}
	}

	if env.NegativePrompt != "" {
		if v := os.Getenv(env.NegativePrompt); v != "" {
			c.NegativePrompt = v
		}
	}
	if env.Seed != "" {
		if v := os.Getenv(env.Seed); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env.Seed, err)
			}
			c.Seed = &n
		}
	}
	return nil
}

func (c *GenerationConfig) validate() error {
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("width and height must be positive: got %dx%d", c.Width, c.Height)
	}
	if c.NumInferenceSteps <= 0 {
		return fmt.Errorf("num_inference_steps must be positive: got %d", c.NumInferenceSteps)
	}
	return nil
}
