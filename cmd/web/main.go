// @title           PhotoFlow API
// @version         1.0
// @description     API фотогалереи: загрузка фото, подписи, теги, поиск и стилизация.
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "photoflow_backend/internal/app"

func main() {
	app.Run()
}
