package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"

	"github.com/grrt-recruitment/pipeline/internal/dtos"
)

// maxPromptResumeBytes caps how much resume text goes into the prompt.
const maxPromptResumeBytes = 20000

type LLMService struct {
	Client llms.Model
}

// NewLLMService builds a Gemini-backed drafter.
func NewLLMService(ctx context.Context, apiKey, model string) (*LLMService, error) {
	if apiKey == "" {
		return nil, ErrLLMDisabled
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &LLMService{Client: llm}, nil
}

const profileDraftPrompt = `
You are a recruitment assistant. Read the resume below and extract the candidate's profile.

### INSTRUCTIONS:
1. Only use information present in the resume. Do not guess.
2. Skill level must be one of: Beginner, Intermediate, Advanced, Expert.
3. Dates in experience are free text as written in the resume (e.g. "Jan 2020").
4. Output valid JSON only. Do not wrap the output in markdown code blocks.

### OUTPUT SCHEMA:
{
    "skills": [{"name": "Go", "level": "Advanced", "yearsOfExperience": 3}],
    "education": [{"level": "Tertiary", "schoolName": "", "address": "", "degree": "", "fieldOfStudy": "", "courseName": "", "startYear": 2015, "endYear": 2019, "isCompleted": true}],
    "experience": [{"companyName": "", "position": "", "startDate": "", "endDate": "", "responsibilities": [""]}]
}

### RESUME:
%s
`

// DraftProfile asks the model for a candidate profile. The result is a
// suggestion for the operator to edit; nothing is saved here.
func (s *LLMService) DraftProfile(ctx context.Context, resumeText string) (*dtos.CandidateProfileRequest, error) {
	if s == nil || s.Client == nil {
		return nil, ErrLLMDisabled
	}
	resumeText = truncateUTF8(resumeText, maxPromptResumeBytes)

	resp, err := llms.GenerateFromSinglePrompt(ctx, s.Client, fmt.Sprintf(profileDraftPrompt, resumeText))
	if err != nil {
		return nil, fmt.Errorf("draft profile: %w", err)
	}

	var draft dtos.CandidateProfileRequest
	if err := json.Unmarshal([]byte(stripCodeFence(resp)), &draft); err != nil {
		return nil, fmt.Errorf("parse drafted profile: %w", err)
	}
	keepKnownSkillLevels(&draft)
	return &draft, nil
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// stripCodeFence removes a ```json ... ``` wrapper some models add anyway.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func keepKnownSkillLevels(p *dtos.CandidateProfileRequest) {
	for i := range p.Skills {
		known := false
		for _, l := range dtos.SkillLevels {
			if strings.EqualFold(p.Skills[i].Level, l) {
				p.Skills[i].Level = l
				known = true
				break
			}
		}
		if !known {
			p.Skills[i].Level = "Beginner"
		}
	}
}
