package requests

type ChannelRequest struct {
	ChannelName string `json:"channelName" valid:"Required;MaxSize(100)" extensions:"!x-nullable"`
}

type SubscriberRequest struct {
	Name string `json:"name" valid:"Required;MaxSize(100)" extensions:"!x-nullable"`
	Kind string `json:"kind" valid:"Required" extensions:"!x-nullable"`
}

type UploadRequest struct {
	Title string `json:"title" valid:"Required;MaxSize(500)" extensions:"!x-nullable"`
}
