package app

// Error aborts with the error text as JSON string.
func (g *Gin) Error(httpCode int, err error) {
	g.C.AbortWithStatusJSON(httpCode, err.Error())
}
