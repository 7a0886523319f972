package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/mindmate-app/planner-api/internal/dto"
)

const chatSystemPrompt = "You are MindMate, a warm, empathetic and encouraging mental wellness companion. " +
	"Keep answers short and conversational."

// ChatService answers companion chat messages through the oracle, falling
// back to rule-based replies when the model is unavailable or fails.
type ChatService struct {
	oracle planOracle
	logger *zap.Logger
}

func NewChatService(oracle planOracle, logger *zap.Logger) *ChatService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{oracle: oracle, logger: logger}
}

// Reply never returns an error to the caller. Oracle failures degrade to the
// fallback generator so the chat surface stays available.
func (s *ChatService) Reply(ctx context.Context, message string) dto.ChatResponse {
	if s.oracle != nil {
		prompt := fmt.Sprintf("%s\n\nUser: %s\n\nMindMate:", chatSystemPrompt, message)
		reply, err := s.oracle.Complete(ctx, prompt)
		if err != nil {
			s.logger.Warn("chat oracle request failed, using fallback", zap.Error(err))
		} else if reply = strings.TrimSpace(reply); reply != "" {
			return dto.ChatResponse{Reply: reply, Source: "ai"}
		}
	}
	return dto.ChatResponse{Reply: fallbackReply(message), Source: "fallback"}
}

var fallbackRules = []struct {
	keywords []string
	reply    string
}{
	{
		keywords: []string{"hi", "hello", "hey", "good morning", "good afternoon", "good evening", "start"},
		reply:    "Hello! I'm Mate, your gentle companion at MindMate. What's on your mind today?",
	},
	{
		keywords: []string{"anxious", "worry", "panic"},
		reply:    "That sounds really tough. Try a few slow breaths with me: inhale 4, hold 4, exhale 6. What's on your mind right now?",
	},
	{
		keywords: []string{"sad", "lonely", "depressed"},
		reply:    "I'm sorry you're going through that. Your feelings make sense. Want to tell me what's been hardest lately?",
	},
	{
		keywords: []string{"angry", "frustrated", "mad", "annoyed"},
		reply:    "It's okay to feel angry. Emotions have messages. What do you think your anger is trying to tell you?",
	},
	{
		keywords: []string{"stress", "pressure", "burnout", "overwhelmed"},
		reply:    "That sounds stressful. What's been weighing on you the most lately?",
	},
	{
		keywords: []string{"tired", "fatigue", "drained"},
		reply:    "You sound really tired. Rest matters. Have you had any quiet moments for yourself today?",
	},
	{
		keywords: []string{"help", "support", "advice"},
		reply:    "I'm here for you. Sometimes just talking helps. What would you like to share with me?",
	},
}

func fallbackReply(message string) string {
	lowered := strings.ToLower(message)
	for _, rule := range fallbackRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(lowered, keyword) {
				return rule.reply
			}
		}
	}
	return "I hear you. I'm here for you. Would you like to tell me a bit more about what's on your mind?"
}
