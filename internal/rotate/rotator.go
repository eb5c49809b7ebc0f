// Package rotate выбирает пару (ключ API, модель) с учётом дневных лимитов
// и повторяет запрос на другой паре, если провайдер ответил отказом по квоте.
package rotate

import "keyscribe/internal/usage"

// DailyCap - число вызовов на пару (ключ, модель) за день UTC.
const DailyCap = 20

// DefaultModels - модели в порядке предпочтения, когда выбранная исчерпана.
var DefaultModels = []string{
	"gemini-2.5-flash",
	"gemini-2.5-flash-lite",
	"gemini-2.0-flash",
}

// UsageReader отдаёт текущий дневной учёт.
type UsageReader interface {
	Read() usage.Data
}

// Selection - выбранная пара для одного запроса.
type Selection struct {
	KeyIndex int
	Key      string
	Model    string
}

// Rotator выбирает пару по учёту. Своего состояния между вызовами не хранит.
type Rotator struct {
	usage  UsageReader
	models []string
	cap    int
}

// NewRotator создаёт Rotator c моделями по умолчанию и лимитом DailyCap.
func NewRotator(u UsageReader) *Rotator {
	return &Rotator{usage: u, models: DefaultModels, cap: DailyCap}
}

// WithModels возвращает копию с другим списком моделей по умолчанию.
func (r *Rotator) WithModels(models []string) *Rotator {
	c := *r
	c.models = models
	return &c
}

// Cap возвращает дневной лимит на пару.
func (r *Rotator) Cap() int {
	return r.cap
}

// Models возвращает список моделей по умолчанию.
func (r *Rotator) Models() []string {
	return r.models
}

// Select перебирает ключи по порядку и для каждого сначала пробует preferred,
// затем модели по умолчанию. Ключ исчерпывается по всем моделям прежде,
// чем выбор переходит к следующему.
// Если всё исчерпано, возвращается первый ключ с preferred (или первой моделью).
// ok == false только при пустом списке ключей.
func (r *Rotator) Select(keys []string, preferred string) (Selection, bool) {
	if len(keys) == 0 {
		return Selection{}, false
	}

	d := r.usage.Read()
	for i, key := range keys {
		if preferred != "" && d.Count(i, preferred) < r.cap {
			return Selection{KeyIndex: i, Key: key, Model: preferred}, true
		}
		for _, m := range r.models {
			if d.Count(i, m) < r.cap {
				return Selection{KeyIndex: i, Key: key, Model: m}, true
			}
		}
	}

	model := preferred
	if model == "" && len(r.models) > 0 {
		model = r.models[0]
	}
	return Selection{KeyIndex: 0, Key: keys[0], Model: model}, true
}
