package segment

import (
	"context"
	"errors"
	"sync"

	"github.com/joseph-ayodele/docsplit/constants"
	"github.com/joseph-ayodele/docsplit/internal/entity"
	"github.com/joseph-ayodele/docsplit/internal/llm"
)

// continuation fires no heuristic signal.
const continuation = "de acordo com o cronograma apresentado, as equipes concluíram os levantamentos de campo " +
	"e registraram as medições em planilha própria. Os resultados obtidos indicam que as metas " +
	"estabelecidas foram atingidas dentro do prazo, sem necessidade de ajustes adicionais nas etapas seguintes."

type fakeExtractor struct {
	pages    []string
	countErr error
	failOn   map[int]error
	released []string
}

func (f *fakeExtractor) Release(path string) {
	f.released = append(f.released, path)
}

func (f *fakeExtractor) PageCount(context.Context, string) (int, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return len(f.pages), nil
}

func (f *fakeExtractor) ExtractPage(ctx context.Context, _ string, page int) (entity.Page, error) {
	if err := ctx.Err(); err != nil {
		return entity.Page{}, err
	}
	if err := f.failOn[page]; err != nil {
		return entity.Page{Number: page, Method: constants.MethodNone}, err
	}
	return entity.Page{Number: page, Text: f.pages[page-1], Method: constants.MethodDirect}, nil
}

type fakeOracle struct {
	mu        sync.Mutex
	responses map[int]string
	errs      map[int]error
	block     bool // wait for ctx instead of answering
	calls     []int
}

func (f *fakeOracle) Analyze(ctx context.Context, req llm.PageRequest) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req.PageNumber)
	f.mu.Unlock()
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if err := f.errs[req.PageNumber]; err != nil {
		return "", err
	}
	if raw, ok := f.responses[req.PageNumber]; ok {
		return raw, nil
	}
	return "", errors.New("no scripted response")
}

func (f *fakeOracle) Calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.calls...)
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func judgment(isNew bool, title string) entity.PageJudgment {
	j := entity.DefaultJudgment("Não encontrado", constants.SourceOracle)
	j.IsNewDocument = isNew
	j.Title = title
	return j
}
