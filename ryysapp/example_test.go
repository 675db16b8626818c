package ryysapp_test

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ryys-dev/ryys"
	"github.com/ryys-dev/ryys/ryysapp"
	"go.uber.org/zap"
)

func ExampleNewApp() {
	type Env struct {
		ryysapp.BaseEnvironment
	}

	ryysapp.NewApp[Env](func(m *ryys.ServeMux, rt *ryysapp.Runtime[Env], client *s3.Client) {
		m.RouteFunc(`/hello/(?<name>\w+)$`, func(r *ryys.Request) (*ryys.Response, error) {
			ryysapp.Log(r).Info("greeting", zap.String("name", r.Attribute("name")))
			return ryys.NewResponse().Text("hello " + r.Attribute("name")), nil
		})
	},
		ryysapp.WithAWSClient(func(cfg aws.Config) *s3.Client { return s3.NewFromConfig(cfg) }),
	)
}
