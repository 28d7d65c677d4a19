package jsonrpc

import "context"

const CANCEL_REQUEST_METHOD = "$/cancelRequest"

type cancelParams struct {
	ID interface{} `json:"id"`
}

// CancelRequest returns the $/cancelRequest notification method, it cancels the context of a running request of
// the session. Requests that are already answered or unknown ids are ignored.
func CancelRequest() MethodInfo {
	return MethodInfo{
		Name:       CANCEL_REQUEST_METHOD,
		NewRequest: func() interface{} { return &cancelParams{} },
		Handler: func(ctx context.Context, req interface{}) (interface{}, error) {
			id := req.(*cancelParams).ID
			session := GetSession(ctx)

			if id != nil && session != nil && !session.cancelJob(id) {
				session.logger.Debug().Interface("id", id).Msg("no running request to cancel")
			}
			return nil, nil
		},
	}
}
