// Package onboarding drives the first-run tour: six fixed steps, a bounded
// step index and the two durable writes the tour makes.
package onboarding

// Step is a position in the tour.
type Step int

const (
	StepIntro Step = iota
	StepMenubar
	StepFeedback
	StepPractice
	StepSpeechTest
	StepOuttro
)

// FirstStep and LastStep bound the tour.
const (
	FirstStep = StepIntro
	LastStep  = StepOuttro
)

// Steps lists every step in order.
var Steps = []Step{StepIntro, StepMenubar, StepFeedback, StepPractice, StepSpeechTest, StepOuttro}

// String returns the step's identifier.
func (s Step) String() string {
	switch s {
	case StepIntro:
		return "intro"
	case StepMenubar:
		return "menubar"
	case StepFeedback:
		return "feedback"
	case StepPractice:
		return "practice"
	case StepSpeechTest:
		return "speechTest"
	case StepOuttro:
		return "outtro"
	default:
		return "unknown"
	}
}

// Valid reports whether s is one of the six steps.
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

// Illustration names the artwork shown beside a step. Embedded illustrations
// are live views rather than images.
type Illustration struct {
	Image    string
	Embedded bool
}

// StepContent is the static copy of a step.
type StepContent struct {
	Title        string
	Subtitle     string
	Illustration Illustration
}

var contents = map[Step]StepContent{
	StepIntro: {
		Title:        "하이피치와 함께\n스피치 실력을 올려보세요",
		Subtitle:     "하이피치의 객관적인 분석 피드백을 통해\n발표 전달력 향상을 도와줄게요",
		Illustration: Illustration{Image: "onboarding1"},
	},
	StepMenubar: {
		Title:        "메뉴바에서 바로 연습을\n시작할 수 있어요",
		Subtitle:     "앱 내에서도 연습시작이 가능하지만,\n메뉴바에서 간편하게 연습을 시작한다면\n불필요한 시간을 줄일 수 있을거에요.",
		Illustration: Illustration{Image: "onboarding2"},
	},
	StepFeedback: {
		Title:        "연습 중, 원하는 피드백을\n실시간으로 받을 수 있어요",
		Subtitle:     "하이피치가 내 음성기록을 실시간으로\n들으며 연습을 보조해줄 거에요.",
		Illustration: Illustration{Image: "onboarding3"},
	},
	StepPractice: {
		Title:        "연습 후, 내 스피치의\n개선점을 상세 체크해봐요",
		Subtitle:     "내 연습 기록을 텍스트로 변환해\n체크할 부분을 하나하나 짚어줘요",
		Illustration: Illustration{Image: "onboarding4"},
	},
	StepSpeechTest: {
		Title:        "정확한 분석을 위해\n내 평균 말하기 속도를\n측정해야 해요",
		Subtitle:     "하이피치가 내 연습을 원활히 분석할 수\n있도록 나만의 적절한 말하기 속도를\n알려주세요",
		Illustration: Illustration{Image: "speechTest", Embedded: true},
	},
	StepOuttro: {
		Title:        "이제 모든 준비가 끝났어요!",
		Subtitle:     "하이피치와 함께 본격적으로\n스피치 연습을 시작하러 가볼까요?",
		Illustration: Illustration{Image: "onboarding6"},
	},
}

// ResumeStep returns the furthest step named in seen, or the intro when none
// match. Names are those returned by Step.String.
func ResumeStep(seen []string) Step {
	resume := FirstStep
	for _, name := range seen {
		for _, st := range Steps {
			if st.String() == name && st > resume {
				resume = st
			}
		}
	}
	return resume
}

// Content returns the copy for s. Out-of-range steps are clamped.
func Content(s Step) StepContent {
	return contents[clampStep(s)]
}

func clampStep(s Step) Step {
	if s < FirstStep {
		return FirstStep
	}
	if s > LastStep {
		return LastStep
	}
	return s
}
