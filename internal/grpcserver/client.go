package grpcserver

import (
	"context"

	"google.golang.org/grpc"

	"moviehub/pkg/models"
)

// Client calls MovieService over the JSON codec. Results decoded from a
// successful call have Found set.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method, arg string, out any, opts ...grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, fullMethod(method), &Request{Arg: arg}, out, opts...)
}

func (c *Client) FilmsPerMonth(ctx context.Context, month string, opts ...grpc.CallOption) (*models.MonthCount, error) {
	out := new(models.MonthCount)
	if err := c.invoke(ctx, "FilmsPerMonth", month, out, opts...); err != nil {
		return nil, err
	}
	out.Found = true
	return out, nil
}

func (c *Client) FilmsPerDay(ctx context.Context, day string, opts ...grpc.CallOption) (*models.DayCount, error) {
	out := new(models.DayCount)
	if err := c.invoke(ctx, "FilmsPerDay", day, out, opts...); err != nil {
		return nil, err
	}
	out.Found = true
	return out, nil
}

func (c *Client) TitleScore(ctx context.Context, title string, opts ...grpc.CallOption) (*models.TitleScore, error) {
	out := new(models.TitleScore)
	if err := c.invoke(ctx, "TitleScore", title, out, opts...); err != nil {
		return nil, err
	}
	out.Found = true
	return out, nil
}

func (c *Client) TitleVotes(ctx context.Context, title string, opts ...grpc.CallOption) (*models.TitleVotes, error) {
	out := new(models.TitleVotes)
	if err := c.invoke(ctx, "TitleVotes", title, out, opts...); err != nil {
		return nil, err
	}
	out.Found = true
	return out, nil
}

func (c *Client) ActorStats(ctx context.Context, name string, opts ...grpc.CallOption) (*models.ActorStats, error) {
	out := new(models.ActorStats)
	if err := c.invoke(ctx, "ActorStats", name, out, opts...); err != nil {
		return nil, err
	}
	out.Found = true
	return out, nil
}

func (c *Client) DirectorStats(ctx context.Context, name string, opts ...grpc.CallOption) (*models.DirectorStats, error) {
	out := new(models.DirectorStats)
	if err := c.invoke(ctx, "DirectorStats", name, out, opts...); err != nil {
		return nil, err
	}
	out.Found = true
	return out, nil
}

func (c *Client) Recommend(ctx context.Context, title string, opts ...grpc.CallOption) ([]string, error) {
	out := new(RecommendResponse)
	if err := c.invoke(ctx, "Recommend", title, out, opts...); err != nil {
		return nil, err
	}
	return out.Titles, nil
}
