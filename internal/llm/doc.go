// Package llm provides the model backends that generate category
// suggestions. It supports OpenAI, Anthropic, and Gemini, selected once per
// run by configuration, and extracts structured suggestions from free-form
// model output on a best-effort basis.
package llm
