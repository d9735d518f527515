package ingest

import "context"

// Summary tallies a batch of sequential ingestion runs.
type Summary struct {
	Results   []Result
	Succeeded int
	Failed    int
}

// RunBatch executes requests one after another. Individual failures never stop
// the batch; callers get one result per request plus the tally. A canceled
// context marks the remaining requests as failed without running them.
func (p *Pipeline) RunBatch(ctx context.Context, requests []Request) Summary {
	summary := Summary{Results: make([]Result, 0, len(requests))}

	for _, req := range requests {
		var result Result
		if ctx.Err() != nil {
			result = Result{
				Domain:  req.Domain,
				RepoURL: req.RepoURL,
				Error:   ctx.Err().Error(),
			}
		} else {
			result = p.Run(ctx, req)
		}

		summary.Results = append(summary.Results, result)
		if result.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	return summary
}
