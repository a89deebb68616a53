// Package router is the entry point of the support desk. It classifies a
// request, runs the matching scenario against the data and support
// delegates, and returns the reply with the trace of every hop.
package router

import (
	"context"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/rs/zerolog/log"
	contractx "github.com/tanpawarit/supportdesk/agent/contract"
	routernode "github.com/tanpawarit/supportdesk/agent/nodes/router"
	"github.com/tanpawarit/supportdesk/agent/trace"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const tracerName = "github.com/tanpawarit/supportdesk/agent/agents/router"

type Config struct {
	PremiumPolicy PremiumPolicy `split_words:"true" default:"vip-id-or-status"`
	VIPCustomerID int64         `envconfig:"VIP_CUSTOMER_ID" default:"12345"`
	ListLimit     int           `split_words:"true" default:"50"`
}

// Reply is the answer to one request. Log is the trace dump of that request
// only.
type Reply struct {
	Response string `json:"response"`
	Log      string `json:"log"`
}

type Router struct {
	deps        routernode.Deps
	graphRunner compose.Runnable[routernode.GraphInput, routernode.GraphOutput]

	now func() time.Time
}

func New(data contractx.DataDelegate, support contractx.SupportDelegate, cfg Config) (*Router, error) {
	if data == nil {
		return nil, errors.New("data delegate is required")
	}
	if support == nil {
		return nil, errors.New("support delegate is required")
	}

	vipID := cfg.VIPCustomerID
	if vipID <= 0 {
		vipID = 12345
	}
	isPremium, err := cfg.PremiumPolicy.Matcher(vipID)
	if err != nil {
		return nil, err
	}

	r := &Router{
		deps: routernode.Deps{
			Data:      data,
			Support:   support,
			IsPremium: isPremium,
			ListLimit: cfg.ListLimit,
		},
		now: time.Now,
	}

	graphRunner, err := r.compileHandleGraph(context.Background())
	if err != nil {
		return nil, err
	}
	r.graphRunner = graphRunner

	return r, nil
}

// Handle answers text. Every call gets its own trace, so concurrent calls
// never see each other's hops. Delegate business failures are folded into
// the response; transport and remote agent errors are returned.
func (r *Router) Handle(ctx context.Context, text string) (Reply, error) {
	intent := Classify(text)
	ctx, span := otel.Tracer(tracerName).Start(ctx, "router.handle")
	defer span.End()
	span.SetAttributes(attribute.String("router.intent", string(intent)))

	tr := trace.New()
	ctx = trace.NewContext(ctx, tr)

	start := r.now()
	out, err := r.graphRunner.Invoke(ctx, routernode.GraphInput{Text: text})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Error().Err(err).Str("intent", string(intent)).Msg("router request failed")
		return Reply{}, err
	}

	log.Debug().
		Str("intent", string(intent)).
		Int("hops", tr.Len()).
		Dur("elapsed", r.now().Sub(start)).
		Msg("router request handled")
	return Reply{Response: out.Response, Log: tr.Dump()}, nil
}
