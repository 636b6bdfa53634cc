package sns

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPublishAPI struct{ mock.Mock }

func (m *mockPublishAPI) Publish(ctx context.Context, in *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	args := m.Called(ctx, in)
	out, _ := args.Get(0).(*sns.PublishOutput)
	return out, args.Error(1)
}

func TestPublish_TagsUser(t *testing.T) {
	api := &mockPublishAPI{}
	api.On("Publish", mock.Anything, mock.MatchedBy(func(in *sns.PublishInput) bool {
		attr, ok := in.MessageAttributes["user_id"]
		return ok && *attr.StringValue == "u1" && *in.TopicArn == "arn:topic" && *in.Subject == "Welcome"
	})).Return(&sns.PublishOutput{}, nil)

	p := &publisher{client: api, topicARN: "arn:topic"}
	assert.NoError(t, p.Publish(context.Background(), "u1", "Welcome", "hi"))
	api.AssertExpectations(t)
}

func TestPublish_Error(t *testing.T) {
	api := &mockPublishAPI{}
	api.On("Publish", mock.Anything, mock.Anything).Return(nil, errors.New("denied"))

	p := &publisher{client: api, topicARN: "arn:topic"}
	assert.ErrorContains(t, p.Publish(context.Background(), "u1", "t", "m"), "sns publish")
}
