package knowledge

import (
	"context"
	"errors"
	"io"
	"testing"
	"testing/fstest"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockPut struct {
	objects map[string]string
	types   map[string]string
	err     error
}

func (m *mockPut) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	data, _ := io.ReadAll(in.Body)
	if m.objects == nil {
		m.objects = map[string]string{}
		m.types = map[string]string{}
	}
	key := aws.ToString(in.Key)
	m.objects[key] = string(data)
	m.types[key] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func TestSeedS3(t *testing.T) {
	fsys := fstest.MapFS{
		"history.md":         {Data: []byte("Founded in 1952.")},
		"products/maple.txt": {Data: []byte("Maple spheres are oiled.")},
		"products/photo.jpg": {Data: []byte{0xff, 0xd8}},
		"products/README.MD": {Data: []byte("Catalog notes.")},
	}

	api := &mockPut{}
	n, err := SeedS3(context.Background(), api, "kb", "knowledge/", fsys)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "Founded in 1952.", api.objects["knowledge/history.md"])
	assert.Equal(t, "Maple spheres are oiled.", api.objects["knowledge/products/maple.txt"])
	assert.Equal(t, "text/plain; charset=utf-8", api.types["knowledge/products/maple.txt"])
	assert.NotContains(t, api.objects, "knowledge/products/photo.jpg")
}

func TestSeedS3_Errors(t *testing.T) {
	_, err := SeedS3(context.Background(), &mockPut{}, "", "", fstest.MapFS{})
	assert.Error(t, err)

	fsys := fstest.MapFS{"a.txt": {Data: []byte("x")}}
	_, err = SeedS3(context.Background(), &mockPut{err: errors.New("denied")}, "kb", "", fsys)
	assert.ErrorContains(t, err, "denied")
}
