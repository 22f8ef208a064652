package domain

// Phase — фаза показа вопроса в комнате.
type Phase string

const (
	PhaseShowing Phase = "showing" // вопрос на экране, ждём reveal
	PhaseWaiting Phase = "waiting" // ответ показан, пауза перед следующим
	PhaseDone    Phase = "done"    // вопросы закончились
)

// Progress — серверное состояние прогрессии комнаты.
// Question не убывает в пределах сессии.
type Progress struct {
	Question int
	Phase    Phase
}
